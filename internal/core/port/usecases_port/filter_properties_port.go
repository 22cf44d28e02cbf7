package usecases_port

import (
	"context"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

type FilterPropertiesUseCasePort interface {
	Execute(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Property, error)
}
