package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/constants"
	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
	"github.com/collo670/NAPANGA-APP/internal/core/port/usecases_port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PushConsumerAdapter - это входящий адаптер, который слушает очередь
// push-сообщений и передает каждое сообщение в use case рассылки
type PushConsumerAdapter struct {
	url      string
	useCase  usecases_port.DispatchPushUseCasePort
	logger   port.LoggerPort
	conn     *amqp.Connection
	channel  *amqp.Channel
	shutdown chan struct{}
}

// NewPushConsumerAdapter создает новый адаптер и объявляет топологию
func NewPushConsumerAdapter(url string, useCase usecases_port.DispatchPushUseCasePort, baseLogger port.LoggerPort) (*PushConsumerAdapter, error) {
	adapter := &PushConsumerAdapter{
		url:      url,
		useCase:  useCase,
		logger:   baseLogger.WithFields(port.Fields{"component": "PushConsumerAdapter"}),
		shutdown: make(chan struct{}),
	}

	if err := adapter.connect(); err != nil {
		return nil, err
	}
	return adapter, nil
}

func (a *PushConsumerAdapter) connect() error {
	conn, err := amqp.Dial(a.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	// Объявляем exchange, очередь и связываем их
	if err := channel.ExchangeDeclare(constants.PushExchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := channel.QueueDeclare(constants.QueuePushMessages, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := channel.QueueBind(constants.QueuePushMessages, constants.RoutingKeyPushEvent, constants.PushExchange, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	a.conn = conn
	a.channel = channel
	return nil
}

// Start запускает цикл потребления. Блокируется до отмены контекста
// или закрытия адаптера; при обрыве соединения переподключается.
func (a *PushConsumerAdapter) Start(ctx context.Context) error {
	for {
		deliveries, err := a.channel.Consume(constants.QueuePushMessages, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("failed to start consuming: %w", err)
		}

		a.logger.Info("Push consumer started", port.Fields{"queue": constants.QueuePushMessages})

		if done := a.consumeLoop(ctx, deliveries); done {
			return nil
		}

		// Канал закрылся - пробуем переподключиться
		a.logger.Warn("RabbitMQ channel closed, reconnecting...", nil)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-a.shutdown:
				return nil
			case <-time.After(5 * time.Second):
			}
			if err := a.connect(); err != nil {
				a.logger.Warn("Reconnect attempt failed", port.Fields{"error": err.Error()})
				continue
			}
			break
		}
	}
}

// consumeLoop возвращает true, если потребление нужно завершить насовсем
func (a *PushConsumerAdapter) consumeLoop(ctx context.Context, deliveries <-chan amqp.Delivery) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case <-a.shutdown:
			return true
		case delivery, ok := <-deliveries:
			if !ok {
				return false
			}
			a.handleDelivery(ctx, delivery)
		}
	}
}

func (a *PushConsumerAdapter) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	traceID := uuid.New().String()
	msgLogger := a.logger.WithFields(port.Fields{"trace_id": traceID})

	msgCtx := contextkeys.ContextWithLogger(ctx, msgLogger)
	msgCtx = contextkeys.ContextWithTraceID(msgCtx, traceID)

	msgLogger.Debug("Push message received", port.Fields{"body_size": len(delivery.Body)})

	if err := a.useCase.Execute(msgCtx, delivery.Body); err != nil {
		msgLogger.Error("Failed to dispatch push message", err, nil)
		// Сообщение не возвращаем в очередь: повтор даст тот же результат
		delivery.Nack(false, false)
		return
	}

	delivery.Ack(false)
}

// Close останавливает потребление и закрывает соединение
func (a *PushConsumerAdapter) Close() error {
	close(a.shutdown)
	if a.channel != nil {
		a.channel.Close()
	}
	var err error
	if a.conn != nil {
		err = a.conn.Close()
	}
	a.logger.Info("Push consumer stopped", nil)
	return err
}
