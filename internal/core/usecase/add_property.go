package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// PropertiesCacheKey - ключ кэша, под которым зеркалируется полный список
// объявлений для офлайн-чтения.
const PropertiesCacheKey = "properties"

// AddPropertyUseCase создает объявление: заполняет черновик дефолтами,
// назначает id и валюту, персистит и зеркалирует список в кэш.
type AddPropertyUseCase struct {
	storage port.PropertyStoragePort
	cache   port.CacheStoragePort

	// Генерация id читает снапшот существующих идентификаторов, поэтому два
	// конкурентных Add могли бы получить одинаковый номер. Мы однопроцессный
	// писатель - сериализуем выдачу id мьютексом и не претендуем на большее.
	mu sync.Mutex
}

func NewAddPropertyUseCase(storage port.PropertyStoragePort, cache port.CacheStoragePort) *AddPropertyUseCase {
	return &AddPropertyUseCase{storage: storage, cache: cache}
}

func (uc *AddPropertyUseCase) Execute(ctx context.Context, draft domain.PropertyDraft) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "AddProperty",
		"country":  draft.Country,
	})

	uc.mu.Lock()
	defer uc.mu.Unlock()

	existing, err := uc.storage.GetAll(ctx)
	if err != nil {
		logger.Error("Failed to load existing properties for id generation", err, nil)
		return "", fmt.Errorf("add property: %w", err)
	}

	existingIDs := make([]string, 0, len(existing))
	for _, p := range existing {
		existingIDs = append(existingIDs, p.ID)
	}

	record := domain.NewPropertyFromDraft(draft, existingIDs, time.Now().UTC())

	if err := uc.storage.Add(ctx, record); err != nil {
		logger.Error("Storage rejected the new property", err, port.Fields{"property_id": record.ID})
		return "", fmt.Errorf("add property %s: %w", record.ID, err)
	}

	// Зеркалируем свежий полный список: офлайн-читатели берут его из кэша
	mirrorProperties(ctx, uc.cache, append(existing, record), logger)

	logger.Info("Property added", port.Fields{"property_id": record.ID})
	return record.ID, nil
}

// mirrorProperties кладет список в кэш. Ошибка кэша не валит основную
// операцию - ее логируем и едем дальше.
func mirrorProperties(ctx context.Context, cache port.CacheStoragePort, records []domain.Property, logger port.LoggerPort) {
	if err := cache.Put(ctx, PropertiesCacheKey, records); err != nil {
		logger.Warn("Failed to mirror properties into cache", port.Fields{"error": err.Error()})
	}
}
