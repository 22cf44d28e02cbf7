package port

import "context"

// PushNotification - то, что в итоге увидит подписанный клиент.
// URL - адрес, который клиент должен сфокусировать или открыть по клику.
type PushNotification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
	Tag   string `json:"tag"`
	URL   string `json:"url"`
}

// NotifierPort рассылает уведомления всем подписанным клиентам.
// Fire-and-forget: подтверждения доставки нет.
type NotifierPort interface {
	Notify(ctx context.Context, notification PushNotification)
}
