package lifecycle

import (
	"context"
	"fmt"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// UpdatePlant applies a partial update to a live plant. A new room must
// belong to the same location and be active; a new source inventory item must
// exist. The audit record captures old and new values of touched fields.
func (s *Service) UpdatePlant(ctx context.Context, input UpdatePlantInput) (domain.Plant, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Plant{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return domain.Plant{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Plant{}, err
	}

	before, err := s.plants.GetByID(ctx, locationID, input.PlantID)
	if err != nil {
		return domain.Plant{}, fmt.Errorf("get plant: %w", err)
	}

	if input.Patch.RoomID != nil {
		if _, err := s.checkRoom(ctx, locationID, *input.Patch.RoomID); err != nil {
			return domain.Plant{}, err
		}
	}
	if input.Patch.SourceInventoryID != nil {
		if _, err := s.inventory.GetByID(ctx, locationID, *input.Patch.SourceInventoryID); err != nil {
			return domain.Plant{}, fmt.Errorf("get source inventory: %w", err)
		}
	}

	var updated domain.Plant
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.plants.Update(txCtx, locationID, input.PlantID, input.Patch)
		if txErr != nil {
			return fmt.Errorf("update plant: %w", txErr)
		}

		details := domain.PlantUpdatedDetails{}
		if input.Patch.Strain != nil {
			details.OldStrain = &before.Strain
			details.NewStrain = &updated.Strain
		}
		if input.Patch.RoomID != nil {
			details.OldRoomID = &before.RoomID
			details.NewRoomID = &updated.RoomID
		}
		if input.Patch.Phase != nil {
			details.OldPhase = &before.Phase
			details.NewPhase = &updated.Phase
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: domain.EntityTypePlant,
			EntityID:   updated.ID,
			Action:     domain.ActionUpdatePlant,
			Details:    details,
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return domain.Plant{}, err
	}

	return updated, nil
}
