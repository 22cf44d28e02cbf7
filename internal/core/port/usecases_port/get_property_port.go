package usecases_port

import (
	"context"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

// GetPropertyUseCasePort возвращает (nil, nil), если объявления нет.
type GetPropertyUseCasePort interface {
	Execute(ctx context.Context, id string) (*domain.Property, error)
}
