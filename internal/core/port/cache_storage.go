package port

import "context"

// CacheStoragePort - key/value кэш с ленивым сроком жизни.
//
// Get возвращает (nil, nil) и для отсутствующего ключа, и для записи старше
// TTL: протухшая запись физически остается на месте, читатели ее просто
// игнорируют. CacheMiss - всегда нормальный исход, не ошибка.
//
// RemoveID - специализация для единственного вызывающего, который хранит
// под общим ключом массив: загружает значение и, если это JSON-массив,
// выкидывает элементы с полем id, равным аргументу. Для не-массива - no-op.
type CacheStoragePort interface {
	Put(ctx context.Context, key string, data interface{}) error
	Get(ctx context.Context, key string) ([]byte, error)
	RemoveID(ctx context.Context, key, id string) error
}
