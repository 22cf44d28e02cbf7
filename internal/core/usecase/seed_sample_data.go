package usecase

import (
	"context"
	"fmt"

	"github.com/collo670/NAPANGA-APP/internal/contextkeys"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// sampleDrafts - демонстрационные объявления из исходного продукта.
var sampleDrafts = []domain.PropertyDraft{
	{
		Country:     "Kenya",
		City:        "Nairobi",
		Area:        "Westlands",
		Title:       "Modern 2BR Apartment with City View",
		Description: "Beautiful apartment in the heart of Westlands. Close to shopping malls and restaurants.",
		Type:        "Apartment",
		Bedrooms:    2,
		Bathrooms:   2,
		Size:        85,
		Price:       85000,
		PaymentType: "Monthly",
		Status:      domain.StatusAvailable,
		Amenities:   []string{"WiFi", "Parking", "Security", "Furnished"},
		Images:      []string{"https://images.unsplash.com/photo-1545324418-cc1a3fa10c00?w=500"},
		Featured:    true,
	},
	{
		Country:     "Tanzania",
		City:        "Dar es Salaam",
		Area:        "Masaki",
		Title:       "Luxury Villa with Ocean View",
		Description: "Stunning villa with direct beach access and private pool.",
		Type:        "Villa",
		Bedrooms:    4,
		Bathrooms:   3,
		Size:        250,
		Price:       3500000,
		PaymentType: "Monthly",
		Status:      domain.StatusAvailable,
		Amenities:   []string{"WiFi", "Parking", "Pool", "Gym", "Security", "Air Conditioning"},
		Images:      []string{"https://images.unsplash.com/photo-1580587771525-78b9dba3b914?w=500"},
		Featured:    true,
	},
	{
		Country:     "Uganda",
		City:        "Kampala",
		Area:        "Kololo",
		Title:       "Spacious Family Home",
		Description: "Large family home with garden and parking. Quiet neighborhood.",
		Type:        "House",
		Bedrooms:    3,
		Bathrooms:   2,
		Size:        180,
		Price:       2500000,
		PaymentType: "Monthly",
		Status:      domain.StatusAvailable,
		Amenities:   []string{"WiFi", "Parking", "Security", "Furnished", "Kitchen"},
		Images:      []string{"https://images.unsplash.com/photo-1568605114967-8130f3a36994?w=500"},
		Featured:    false,
	},
}

// SeedSampleDataUseCase наполняет пустое хранилище демо-данными.
// Идемпотентен: если в хранилище уже что-то есть, ничего не делает.
type SeedSampleDataUseCase struct {
	storage port.PropertyStoragePort
	addUC   *AddPropertyUseCase
}

func NewSeedSampleDataUseCase(storage port.PropertyStoragePort, addUC *AddPropertyUseCase) *SeedSampleDataUseCase {
	return &SeedSampleDataUseCase{storage: storage, addUC: addUC}
}

func (uc *SeedSampleDataUseCase) Execute(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SeedSampleData",
	})

	existing, err := uc.storage.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("seed sample data: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("Store is not empty, skipping sample data", port.Fields{"count": len(existing)})
		return nil
	}

	for _, draft := range sampleDrafts {
		if _, err := uc.addUC.Execute(ctx, draft); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
	}

	logger.Info("Sample data initialized", port.Fields{"count": len(sampleDrafts)})
	return nil
}
