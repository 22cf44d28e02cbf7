package usecase

import (
	"context"
	"encoding/json"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/port"

	"github.com/google/uuid"
)

// Дефолты уведомления - как в исходном продукте NAPANGA.
var defaultNotification = port.PushNotification{
	Title: "NAPANGA",
	Body:  "Kuna nyumba mpya inayokungoja!",
	Icon:  "/icons/icon-192.png",
	Badge: "/icons/icon-72.png",
	Tag:   "napanga-notification",
	URL:   "/",
}

// DispatchPushUseCase разбирает тело push-сообщения и раздает уведомление
// подписчикам. JSON-поля накладываются поверх дефолтов; если тело - не JSON,
// оно целиком становится текстом уведомления.
type DispatchPushUseCase struct {
	notifier port.NotifierPort
}

func NewDispatchPushUseCase(notifier port.NotifierPort) *DispatchPushUseCase {
	return &DispatchPushUseCase{notifier: notifier}
}

func (uc *DispatchPushUseCase) Execute(ctx context.Context, payload []byte) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "DispatchPush",
	})

	notification := defaultNotification
	notification.ID = uuid.New().String()

	if len(payload) > 0 {
		var overlay port.PushNotification
		if err := json.Unmarshal(payload, &overlay); err == nil {
			applyOverlay(&notification, overlay)
		} else {
			notification.Body = string(payload)
		}
	}

	uc.notifier.Notify(ctx, notification)
	logger.Info("Push notification dispatched", port.Fields{
		"notification_id": notification.ID,
		"tag":             notification.Tag,
	})
	return nil
}

func applyOverlay(base *port.PushNotification, overlay port.PushNotification) {
	if overlay.Title != "" {
		base.Title = overlay.Title
	}
	if overlay.Body != "" {
		base.Body = overlay.Body
	}
	if overlay.Icon != "" {
		base.Icon = overlay.Icon
	}
	if overlay.Badge != "" {
		base.Badge = overlay.Badge
	}
	if overlay.Tag != "" {
		base.Tag = overlay.Tag
	}
	if overlay.URL != "" {
		base.URL = overlay.URL
	}
}
