package usecases_port

import "context"

// DispatchPushUseCasePort принимает сырое тело push-сообщения (JSON или
// обычный текст) и доводит его до подписанных клиентов.
type DispatchPushUseCasePort interface {
	Execute(ctx context.Context, payload []byte) error
}
