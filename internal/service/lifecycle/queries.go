package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// GetPlant returns a live plant by id.
func (s *Service) GetPlant(ctx context.Context, plantID uuid.UUID) (domain.Plant, error) {
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return domain.Plant{}, domain.ErrUnauthorized
	}
	plant, err := s.plants.GetByID(ctx, locationID, plantID)
	if err != nil {
		return domain.Plant{}, fmt.Errorf("get plant: %w", err)
	}
	return plant, nil
}

// GetPlantHistory returns the newest audit records for a plant.
func (s *Service) GetPlantHistory(ctx context.Context, plantID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	records, err := s.audit.GetByEntity(ctx, locationID, domain.EntityTypePlant, plantID, limit)
	if err != nil {
		return nil, fmt.Errorf("get plant history: %w", err)
	}
	return records, nil
}
