package usecase_test

import (
	"context"
	"testing"

	"github.com/collo670/NAPANGA-APP/internal/core/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPushEmptyPayloadUsesDefaults(t *testing.T) {
	notifier := &fakeNotifier{}
	uc := usecase.NewDispatchPushUseCase(notifier)

	require.NoError(t, uc.Execute(context.Background(), nil))

	require.Len(t, notifier.notifications, 1)
	n := notifier.notifications[0]
	assert.Equal(t, "NAPANGA", n.Title)
	assert.Equal(t, "Kuna nyumba mpya inayokungoja!", n.Body)
	assert.Equal(t, "napanga-notification", n.Tag)
	assert.Equal(t, "/", n.URL)
	assert.NotEmpty(t, n.ID)
}

func TestDispatchPushJSONOverlay(t *testing.T) {
	notifier := &fakeNotifier{}
	uc := usecase.NewDispatchPushUseCase(notifier)

	payload := []byte(`{"title":"New listing","body":"2BR in Westlands","url":"/properties/KE-2026-001"}`)
	require.NoError(t, uc.Execute(context.Background(), payload))

	require.Len(t, notifier.notifications, 1)
	n := notifier.notifications[0]
	assert.Equal(t, "New listing", n.Title)
	assert.Equal(t, "2BR in Westlands", n.Body)
	assert.Equal(t, "/properties/KE-2026-001", n.URL)
	// Поля, не перекрытые JSON, остаются дефолтными
	assert.Equal(t, "napanga-notification", n.Tag)
}

func TestDispatchPushPlainTextBecomesBody(t *testing.T) {
	notifier := &fakeNotifier{}
	uc := usecase.NewDispatchPushUseCase(notifier)

	require.NoError(t, uc.Execute(context.Background(), []byte("Nyumba mpya Nairobi!")))

	require.Len(t, notifier.notifications, 1)
	n := notifier.notifications[0]
	assert.Equal(t, "Nyumba mpya Nairobi!", n.Body)
	assert.Equal(t, "NAPANGA", n.Title)
}

func TestDispatchPushUniqueIDs(t *testing.T) {
	notifier := &fakeNotifier{}
	uc := usecase.NewDispatchPushUseCase(notifier)
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, nil))
	require.NoError(t, uc.Execute(ctx, nil))

	require.Len(t, notifier.notifications, 2)
	assert.NotEqual(t, notifier.notifications[0].ID, notifier.notifications[1].ID)
}
