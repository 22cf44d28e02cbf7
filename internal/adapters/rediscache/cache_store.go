// Пакет rediscache - альтернативный драйвер kv-кэша (CACHE_DRIVER=redis).
// TTL здесь такой же ленивый, как у файлового драйвера: метка времени
// хранится внутри значения и проверяется при чтении, Redis-овский EXPIRE
// сознательно не используется - протухшая запись должна оставаться на
// месте и лишь игнорироваться читателями.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/constants"
	"github.com/collo670/NAPANGA-APP/internal/core/port"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "napanga:cache:"

type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// CacheStoreAdapter реализует CacheStoragePort поверх Redis.
type CacheStoreAdapter struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
	logger port.LoggerPort
}

func NewCacheStoreAdapter(ctx context.Context, addr string, logger port.LoggerPort) (*CacheStoreAdapter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &CacheStoreAdapter{
		client: client,
		ttl:    constants.CacheTTL,
		now:    time.Now,
		logger: logger.WithFields(port.Fields{"component": "redis_cache_store"}),
	}, nil
}

func (a *CacheStoreAdapter) Put(ctx context.Context, key string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	value, err := json.Marshal(envelope{Data: raw, Timestamp: a.now()})
	if err != nil {
		return fmt.Errorf("encode cache envelope %q: %w", key, err)
	}
	return a.client.Set(ctx, keyPrefix+key, value, 0).Err()
}

func (a *CacheStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := a.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache entry %q: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		a.logger.Warn("Corrupt cache entry treated as a miss", port.Fields{"key": key, "error": err.Error()})
		return nil, nil
	}
	if a.now().Sub(env.Timestamp) >= a.ttl {
		return nil, nil
	}
	return env.Data, nil
}

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

// Close закрывает соединение с Redis.
func (a *CacheStoreAdapter) Close() error {
	return a.client.Close()
}
