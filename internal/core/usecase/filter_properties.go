package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// FilterPropertiesUseCase - чтение с фильтрацией. Основной путь - живое
// хранилище; если оно недоступно, пробуем отдать зеркалированный список из
// кэша (деградированное офлайн-чтение).
type FilterPropertiesUseCase struct {
	storage port.PropertyStoragePort
	cache   port.CacheStoragePort
}

func NewFilterPropertiesUseCase(storage port.PropertyStoragePort, cache port.CacheStoragePort) *FilterPropertiesUseCase {
	return &FilterPropertiesUseCase{storage: storage, cache: cache}
}

func (uc *FilterPropertiesUseCase) Execute(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "FilterProperties",
	})

	records, err := uc.storage.GetAll(ctx)
	if err != nil {
		logger.Warn("Primary store unavailable, falling back to cached list", port.Fields{"error": err.Error()})

		cached, cacheErr := uc.cache.Get(ctx, PropertiesCacheKey)
		if cacheErr != nil || cached == nil {
			// Кэш тоже пуст или протух - отдаем исходную ошибку хранилища
			return nil, fmt.Errorf("filter properties: %w", err)
		}
		if jsonErr := json.Unmarshal(cached, &records); jsonErr != nil {
			logger.Error("Cached property list is malformed", jsonErr, nil)
			return nil, fmt.Errorf("filter properties: %w", err)
		}
		logger.Info("Served property list from cache", port.Fields{"count": len(records)})
	}

	return domain.Filter(records, criteria), nil
}
