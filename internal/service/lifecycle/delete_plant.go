package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// SoftDeletePlant marks a plant deleted. A missing or already deleted plant
// reports not-found; the second delete of the same plant is never a silent
// success.
func (s *Service) SoftDeletePlant(ctx context.Context, input DeletePlantInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	deletedAt := time.Now().UTC()

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.plants.SoftDelete(txCtx, locationID, input.PlantID, deletedAt); err != nil {
			return fmt.Errorf("soft delete plant: %w", err)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: domain.EntityTypePlant,
			EntityID:   input.PlantID,
			Action:     domain.ActionDeletePlant,
			Details:    domain.PlantDeletedDetails{DeletedAt: deletedAt},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "plant deleted", "plant_id", input.PlantID)
	return nil
}
