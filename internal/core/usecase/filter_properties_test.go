package usecase_test

import (
	"context"
	"testing"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterPropertiesFromLiveStore(t *testing.T) {
	storage := newFakePropertyStorage()
	seedStorage(t, storage, "KE-2026-001", "KE-2026-002")
	uc := usecase.NewFilterPropertiesUseCase(storage, newFakeCacheStorage())

	records, err := uc.Execute(context.Background(), domain.FilterCriteria{Country: "Kenya"})

	require.NoError(t, err)
	assert.Len(t, records, 2)
	// Новые первыми
	assert.Equal(t, "KE-2026-002", records[0].ID)
}

func TestFilterPropertiesFallsBackToCache(t *testing.T) {
	storage := newFakePropertyStorage()
	seedStorage(t, storage, "KE-2026-001", "KE-2026-002")
	cache := newFakeCacheStorage()
	ctx := context.Background()

	// Зеркалируем список, пока хранилище живо
	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, usecase.PropertiesCacheKey, all))

	// Хранилище падает - читатель получает зеркалированные данные
	storage.failAll = true
	uc := usecase.NewFilterPropertiesUseCase(storage, cache)

	records, err := uc.Execute(ctx, domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Критерии применяются и к кэшированной копии
	minPrice := 1500
	filtered, err := uc.Execute(ctx, domain.FilterCriteria{MinPrice: &minPrice})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "KE-2026-002", filtered[0].ID)
}

func TestFilterPropertiesNoCacheNoStore(t *testing.T) {
	storage := newFakePropertyStorage()
	storage.failAll = true
	uc := usecase.NewFilterPropertiesUseCase(storage, newFakeCacheStorage())

	_, err := uc.Execute(context.Background(), domain.FilterCriteria{})

	assert.Error(t, err)
}

func TestFilterPropertiesMalformedCache(t *testing.T) {
	storage := newFakePropertyStorage()
	storage.failAll = true
	cache := newFakeCacheStorage()
	cache.entries[usecase.PropertiesCacheKey] = []byte(`{"not":"an array"}`)
	uc := usecase.NewFilterPropertiesUseCase(storage, cache)

	_, err := uc.Execute(context.Background(), domain.FilterCriteria{})

	assert.Error(t, err)
}
