package usecases_port

import (
	"context"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

type AddPropertyUseCasePort interface {
	Execute(ctx context.Context, draft domain.PropertyDraft) (string, error)
}
