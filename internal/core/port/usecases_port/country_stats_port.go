package usecases_port

import (
	"context"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

type CountryStatsUseCasePort interface {
	Execute(ctx context.Context) (map[string]domain.CountryStatistics, error)
}
