package port

import "context"

// EventListenerPort - фоновый слушатель входящих событий (например, консьюмер
// очереди push-уведомлений). Start блокируется до отмены контекста.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
