package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// clientChannel - это канал, через который мы будем отправлять события одному конкретному клиенту (браузеру)
type clientChannel chan []byte

// структура для передачи в канал
type notificationWithContext struct {
	ctx          context.Context
	notification port.PushNotification
}

// SSENotifier - это реализация NotifierPort. Уведомления широковещательные:
// каждое доставляется всем открытым подпискам.
type SSENotifier struct {
	// clients хранит активные подключения
	clients []clientChannel
	// mu - мьютекс для защиты clients от одновременного доступа из разных горутин
	mu sync.RWMutex

	// notificationChan - внутренний канал, в который Use Cases будут бросать уведомления
	notificationChan chan notificationWithContext

	logger port.LoggerPort
}

// NewSSENotifier создает и запускает новый нотификатор
func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {

	notifierLogger := baseLogger.WithFields(port.Fields{"component": "SSENotifier"})

	n := &SSENotifier{
		notificationChan: make(chan notificationWithContext, 100), // Буферизованный канал
		logger:           notifierLogger,
	}

	// Запускаем основную горутину-диспетчер, которая будет слушать уведомления и рассылать их
	go n.dispatcher()

	return n
}

// dispatcher - работает в фоне и никогда не завершается
func (n *SSENotifier) dispatcher() {
	n.logger.Debug("Notifier dispatcher started.", nil)
	for {

		// Блокируемся, пока не придет новое уведомление из Use Case
		pack := <-n.notificationChan

		// Извлекаем логгер из переданного контекста
		eventLogger := contextkeys.LoggerFromContext(pack.ctx).WithFields(port.Fields{
			"component":       "SSENotifier.dispatcher",
			"notification_id": pack.notification.ID,
			"tag":             pack.notification.Tag,
		})

		eventLogger.Info("Processing new notification.", nil)

		notificationBytes, err := json.Marshal(pack.notification)
		if err != nil {
			eventLogger.Error("Failed to marshal notification", err, nil)
			continue
		}

		// Форматируем для SSE
		sseMessage := []byte(fmt.Sprintf("event: push\ndata: %s\n\n", string(notificationBytes)))

		// Блокируем clients для безопасного чтения
		n.mu.RLock()

		if len(n.clients) == 0 {
			eventLogger.Debug("No active clients, notification dropped.", nil)
		}
		for _, ch := range n.clients {
			// Используем select с default, чтобы не заблокироваться,
			// если канал клиента переполнен или закрыт
			select {
			case ch <- sseMessage:
			default:
				eventLogger.Warn("Client channel is full or closed, skipping.", nil)
			}
		}

		n.mu.RUnlock()
	}
}

// Notify - это реализация метода из NotifierPort
// Use Cases вызывают этот метод. Он просто отправляет уведомление во внутренний канал
func (n *SSENotifier) Notify(ctx context.Context, notification port.PushNotification) {
	n.notificationChan <- notificationWithContext{
		ctx:          ctx,
		notification: notification,
	}
}

// AddClient добавляет нового клиента (новое SSE-соединение)
func (n *SSENotifier) AddClient() clientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(clientChannel, 100) // Канал для одного клиента
	n.clients = append(n.clients, ch)

	n.logger.Info("Client connected", port.Fields{
		"total_connections": len(n.clients),
	})

	return ch
}

// RemoveClient удаляет канал клиента при отключении
func (n *SSENotifier) RemoveClient(ch clientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	newClients := make([]clientChannel, 0, len(n.clients))
	for _, c := range n.clients {
		if c != ch {
			newClients = append(newClients, c)
		}
	}
	n.clients = newClients

	n.logger.Info("Client disconnected.", port.Fields{
		"remaining_connections": len(n.clients),
	})
}

// SubscribeHandler - обработчик для GET /api/v1/notifications/subscribe
func (n *SSENotifier) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "SubscribeToNotifications",
	})
	handlerLogger.Info("New client subscribing to SSE events", nil)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := n.AddClient()
	defer n.RemoveClient(clientChan)

	// Отправляем ping для подтверждения установки соединения
	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	// Отправляем пустой комментарий каждые 15 секунд
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				handlerLogger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			handlerLogger.Debug("Sent SSE event to client", nil)

		case <-ticker.C:
			// В спецификации SSE строки, начинающиеся с двоеточия (:), считаются комментариями
			// Браузер их получает, канал остается активным, но JS-код (onmessage) их игнорирует
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}

		case <-r.Context().Done():
			handlerLogger.Info("SSE client disconnected.", nil)
			return
		}
	}
}
