package localdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPropertyStore(t *testing.T) *PropertyStoreAdapter {
	t.Helper()
	return NewPropertyStoreAdapter(t.TempDir(), nopLogger{})
}

func sampleRecord(id string, createdAt time.Time) domain.Property {
	return domain.Property{
		ID:        id,
		Country:   "Kenya",
		City:      "Nairobi",
		Title:     "Apartment " + id,
		Type:      "apartment",
		Price:     85000,
		Currency:  "KES",
		Status:    domain.StatusAvailable,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestPropertyStoreRoundTrip(t *testing.T) {
	store := newTestPropertyStore(t)
	ctx := context.Background()
	record := sampleRecord("KE-2026-001", time.Now().UTC().Truncate(time.Second))

	require.NoError(t, store.Add(ctx, record))

	got, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record, *got)
}

func TestPropertyStoreAddRejectsDuplicateID(t *testing.T) {
	store := newTestPropertyStore(t)
	ctx := context.Background()
	record := sampleRecord("KE-2026-001", time.Now().UTC())

	require.NoError(t, store.Add(ctx, record))

	err := store.Add(ctx, record)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWriteConflict))
}

func TestPropertyStorePutOverwrites(t *testing.T) {
	store := newTestPropertyStore(t)
	ctx := context.Background()
	record := sampleRecord("KE-2026-001", time.Now().UTC().Truncate(time.Second))

	require.NoError(t, store.Add(ctx, record))

	record.Status = domain.StatusRented
	require.NoError(t, store.Put(ctx, record))

	got, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusRented, got.Status)
}

func TestPropertyStoreGetMissing(t *testing.T) {
	store := newTestPropertyStore(t)

	got, err := store.Get(context.Background(), "KE-2026-404")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPropertyStoreGetAllSortedByCreation(t *testing.T) {
	store := newTestPropertyStore(t)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	// Пишем в перемешанном порядке
	require.NoError(t, store.Add(ctx, sampleRecord("KE-2026-002", base.Add(time.Hour))))
	require.NoError(t, store.Add(ctx, sampleRecord("KE-2026-003", base.Add(2*time.Hour))))
	require.NoError(t, store.Add(ctx, sampleRecord("KE-2026-001", base)))

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "KE-2026-001", records[0].ID)
	assert.Equal(t, "KE-2026-002", records[1].ID)
	assert.Equal(t, "KE-2026-003", records[2].ID)
}

func TestPropertyStoreGetAllSkipsCorruptDocuments(t *testing.T) {
	store := newTestPropertyStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, sampleRecord("KE-2026-001", time.Now().UTC())))
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "garbage.json"), []byte("{oops"), 0o644))

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPropertyStoreDelete(t *testing.T) {
	store := newTestPropertyStore(t)
	ctx := context.Background()
	record := sampleRecord("KE-2026-001", time.Now().UTC())

	require.NoError(t, store.Add(ctx, record))
	require.NoError(t, store.Delete(ctx, record.ID))

	got, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Повторное удаление отсутствующей записи не является ошибкой
	assert.NoError(t, store.Delete(ctx, record.ID))
}
