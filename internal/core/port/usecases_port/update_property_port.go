package usecases_port

import (
	"context"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

type UpdatePropertyUseCasePort interface {
	Execute(ctx context.Context, record domain.Property) error
}
