package localdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger - заглушка для тестов адаптеров
type nopLogger struct{}

func (nopLogger) Info(msg string, fields port.Fields)             {}
func (nopLogger) Warn(msg string, fields port.Fields)             {}
func (nopLogger) Error(msg string, err error, fields port.Fields) {}
func (nopLogger) Debug(msg string, fields port.Fields)            {}
func (l nopLogger) WithFields(fields port.Fields) port.LoggerPort { return l }

func newTestCacheStore(t *testing.T) *CacheStoreAdapter {
	t.Helper()
	return NewCacheStoreAdapter(t.TempDir(), nopLogger{})
}

func TestCacheGetMissingKey(t *testing.T) {
	store := newTestCacheStore(t)

	data, err := store.Get(context.Background(), "nothing")

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCachePutGetRoundTrip(t *testing.T) {
	store := newTestCacheStore(t)
	ctx := context.Background()

	payload := []map[string]interface{}{
		{"id": "KE-2026-001", "title": "Apartment"},
	}
	require.NoError(t, store.Put(ctx, "properties", payload))

	data, err := store.Get(ctx, "properties")
	require.NoError(t, err)
	require.NotNil(t, data)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "KE-2026-001", got[0]["id"])
}

func TestCacheLazyTTL(t *testing.T) {
	store := newTestCacheStore(t)
	ctx := context.Background()

	writeTime := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	current := writeTime
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put(ctx, "properties", []string{"a"}))

	t.Run("hit just before expiry", func(t *testing.T) {
		current = writeTime.Add(store.ttl - time.Second)
		data, err := store.Get(ctx, "properties")
		require.NoError(t, err)
		assert.NotNil(t, data)
	})

	t.Run("miss exactly at expiry", func(t *testing.T) {
		current = writeTime.Add(store.ttl)
		data, err := store.Get(ctx, "properties")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("expired entry stays on disk", func(t *testing.T) {
		_, statErr := os.Stat(store.path("properties"))
		assert.NoError(t, statErr)
	})

	t.Run("rewrite resets the clock", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "properties", []string{"b"}))
		data, err := store.Get(ctx, "properties")
		require.NoError(t, err)
		assert.NotNil(t, data)
	})
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	store := newTestCacheStore(t)
	ctx := context.Background()

	require.NoError(t, store.ensureOpen())
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "broken.json"), []byte("{not json"), 0o644))

	data, err := store.Get(ctx, "broken")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCacheRemoveID(t *testing.T) {
	ctx := context.Background()

	t.Run("strips matching element", func(t *testing.T) {
		store := newTestCacheStore(t)
		payload := []map[string]interface{}{
			{"id": "KE-2026-001"},
			{"id": "KE-2026-002"},
		}
		require.NoError(t, store.Put(ctx, "properties", payload))

		require.NoError(t, store.RemoveID(ctx, "properties", "KE-2026-001"))

		data, err := store.Get(ctx, "properties")
		require.NoError(t, err)
		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "KE-2026-002", got[0]["id"])
	})

	t.Run("missing key is a no-op", func(t *testing.T) {
		store := newTestCacheStore(t)
		assert.NoError(t, store.RemoveID(ctx, "properties", "KE-2026-001"))
	})

	t.Run("non-array value is left intact", func(t *testing.T) {
		store := newTestCacheStore(t)
		require.NoError(t, store.Put(ctx, "settings", map[string]string{"theme": "dark"}))

		require.NoError(t, store.RemoveID(ctx, "settings", "KE-2026-001"))

		data, err := store.Get(ctx, "settings")
		require.NoError(t, err)
		var got map[string]string
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "dark", got["theme"])
	})
}
