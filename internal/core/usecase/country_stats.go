package usecase

import (
	"context"
	"fmt"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

type CountryStatsUseCase struct {
	storage port.PropertyStoragePort
}

func NewCountryStatsUseCase(storage port.PropertyStoragePort) *CountryStatsUseCase {
	return &CountryStatsUseCase{storage: storage}
}

func (uc *CountryStatsUseCase) Execute(ctx context.Context) (map[string]domain.CountryStatistics, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CountryStats",
	})

	records, err := uc.storage.GetAll(ctx)
	if err != nil {
		logger.Error("Failed to load properties for statistics", err, nil)
		return nil, fmt.Errorf("country stats: %w", err)
	}

	return domain.CountryStats(records), nil
}
