package usecase

import (
	"context"
	"fmt"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

type DeletePropertyUseCase struct {
	storage port.PropertyStoragePort
	cache   port.CacheStoragePort
}

func NewDeletePropertyUseCase(storage port.PropertyStoragePort, cache port.CacheStoragePort) *DeletePropertyUseCase {
	return &DeletePropertyUseCase{storage: storage, cache: cache}
}

func (uc *DeletePropertyUseCase) Execute(ctx context.Context, id string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "DeleteProperty",
		"property_id": id,
	})

	if err := uc.storage.Delete(ctx, id); err != nil {
		logger.Error("Storage rejected the delete", err, nil)
		return fmt.Errorf("delete property %s: %w", id, err)
	}

	// Best-effort чистка кэшированного массива. Если под ключом лежит
	// не массив - RemoveID молча ничего не делает, мы только логируем.
	if err := uc.cache.RemoveID(ctx, PropertiesCacheKey, id); err != nil {
		logger.Warn("Failed to strip property from cached list", port.Fields{"error": err.Error()})
	}

	logger.Info("Property deleted", nil)
	return nil
}
