package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/constants"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// cacheEnvelope - то, что лежит на диске: данные плюс момент записи.
// Срок жизни проверяется при чтении, протухшие записи не удаляются.
type cacheEnvelope struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// CacheStoreAdapter реализует CacheStoragePort поверх каталога
// JSON-документов с ленивым 24-часовым TTL.
type CacheStoreAdapter struct {
	dirStore
	ttl    time.Duration
	now    func() time.Time
	logger port.LoggerPort
}

func NewCacheStoreAdapter(dir string, logger port.LoggerPort) *CacheStoreAdapter {
	return &CacheStoreAdapter{
		dirStore: dirStore{dir: dir},
		ttl:      constants.CacheTTL,
		now:      time.Now,
		logger:   logger.WithFields(port.Fields{"component": "localdb_cache_store"}),
	}
}

// Put перезаписывает значение безусловно и штампует текущее время.
func (a *CacheStoreAdapter) Put(ctx context.Context, key string, data interface{}) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}

	envelope, err := json.Marshal(cacheEnvelope{
		Key:       key,
		Data:      raw,
		Timestamp: a.now(),
	})
	if err != nil {
		return fmt.Errorf("encode cache envelope %q: %w", key, err)
	}

	return a.writeAtomic(a.path(key), envelope)
}

// Get возвращает (nil, nil) для отсутствующего ключа и для записи, чей
// возраст достиг TTL. Чтение ничего не мутирует.
func (a *CacheStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if err := a.ensureOpen(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(a.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache entry %q: %w", key, err)
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		a.logger.Warn("Corrupt cache entry treated as a miss", port.Fields{"key": key, "error": err.Error()})
		return nil, nil
	}

	if a.now().Sub(envelope.Timestamp) >= a.ttl {
		// Протухла - с точки зрения читателя ее нет
		return nil, nil
	}
	return envelope.Data, nil
}

// RemoveID чистит элемент массива по полю id. Если под ключом лежит
// не массив (или ключа нет) - молча ничего не делает: это осознанный
// защитный фоллбек, а не гарантия консистентности.
func (a *CacheStoreAdapter) RemoveID(ctx context.Context, key, id string) error {
	data, err := a.Get(ctx, key)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		a.logger.Warn("Cached value is not array-shaped, skipping cleanup", port.Fields{"key": key})
		return nil
	}

	filtered := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if itemID, ok := item["id"].(string); ok && itemID == id {
			continue
		}
		filtered = append(filtered, item)
	}

	return a.Put(ctx, key, filtered)
}
