package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// UpdatePropertyUseCase перезаписывает объявление целиком: частичных
// обновлений нет, вызывающая сторона обязана прислать полный объект
// вместе с его id. Автоматически обновляется только UpdatedAt.
type UpdatePropertyUseCase struct {
	storage port.PropertyStoragePort
	cache   port.CacheStoragePort
}

func NewUpdatePropertyUseCase(storage port.PropertyStoragePort, cache port.CacheStoragePort) *UpdatePropertyUseCase {
	return &UpdatePropertyUseCase{storage: storage, cache: cache}
}

func (uc *UpdatePropertyUseCase) Execute(ctx context.Context, record domain.Property) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "UpdateProperty",
		"property_id": record.ID,
	})

	if record.ID == "" {
		err := fmt.Errorf("update property: record has no id")
		logger.Error("Refusing to update a record without id", err, nil)
		return err
	}

	record.UpdatedAt = time.Now().UTC()

	if err := uc.storage.Put(ctx, record); err != nil {
		logger.Error("Storage rejected the update", err, nil)
		return fmt.Errorf("update property %s: %w", record.ID, err)
	}

	if all, err := uc.storage.GetAll(ctx); err == nil {
		mirrorProperties(ctx, uc.cache, all, logger)
	} else {
		logger.Warn("Skipping cache mirror: failed to reload properties", port.Fields{"error": err.Error()})
	}

	logger.Info("Property updated", nil)
	return nil
}
