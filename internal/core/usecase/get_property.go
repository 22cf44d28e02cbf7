package usecase

import (
	"context"
	"fmt"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

type GetPropertyUseCase struct {
	storage port.PropertyStoragePort
}

func NewGetPropertyUseCase(storage port.PropertyStoragePort) *GetPropertyUseCase {
	return &GetPropertyUseCase{storage: storage}
}

// Execute возвращает (nil, nil), если объявления с таким id нет.
func (uc *GetPropertyUseCase) Execute(ctx context.Context, id string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetProperty",
		"property_id": id,
	})

	record, err := uc.storage.Get(ctx, id)
	if err != nil {
		logger.Error("Storage returned an error on point lookup", err, nil)
		return nil, fmt.Errorf("get property %s: %w", id, err)
	}
	return record, nil
}
