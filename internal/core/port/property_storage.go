package port

import (
	"context"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

// PropertyStoragePort - контракт персистентного хранилища объявлений.
// Одна логическая таблица с ключом id; каждая операция атомарна в пределах
// одной записи.
//
// Add отклоняет запись с уже существующим id (domain.ErrWriteConflict),
// Put перезаписывает безусловно. Get возвращает (nil, nil), если записи
// нет - отсутствие не является ошибкой.
type PropertyStoragePort interface {
	Add(ctx context.Context, record domain.Property) error
	Put(ctx context.Context, record domain.Property) error
	Get(ctx context.Context, id string) (*domain.Property, error)
	GetAll(ctx context.Context) ([]domain.Property, error)
	Delete(ctx context.Context, id string) error
}
