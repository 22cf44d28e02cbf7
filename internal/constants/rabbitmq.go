package constants

// Очередь и маршрутизация push-сообщений.
const (
	PushExchange        = "napanga_push_exchange"
	QueuePushMessages   = "push_messages"
	RoutingKeyPushEvent = "push.event"
)
