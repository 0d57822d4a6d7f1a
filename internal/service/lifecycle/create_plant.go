package lifecycle

import (
	"context"
	"fmt"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// CreatePlant creates a plant, optionally consuming units from a source
// inventory item (seeds or clones). The consumption is a conditional
// decrement: if concurrent consumers depleted the stock first, the whole
// operation fails with an insufficient-quantity error and nothing is written.
func (s *Service) CreatePlant(ctx context.Context, input CreatePlantInput) (domain.Plant, error) {
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

	if _, err := s.checkRoom(ctx, locationID, input.RoomID); err != nil {
		return domain.Plant{}, err
	}

	if input.SourceInventoryID != nil {
		if _, err := s.inventory.GetByID(ctx, locationID, *input.SourceInventoryID); err != nil {
			return domain.Plant{}, fmt.Errorf("get source inventory: %w", err)
		}
	}

	var plant domain.Plant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if input.SourceInventoryID != nil {
			if err := s.inventory.DecrementQuantity(txCtx, locationID, *input.SourceInventoryID, input.ConsumeAmount); err != nil {
				return fmt.Errorf("consume source inventory: %w", err)
			}
		}

		var err error
		plant, err = s.plants.Create(txCtx, domain.Plant{
			LocationID:        locationID,
			Strain:            input.Strain,
			RoomID:            input.RoomID,
			Phase:             input.Phase,
			Notes:             input.Notes,
			SourceInventoryID: input.SourceInventoryID,
		})
		if err != nil {
			return fmt.Errorf("create plant: %w", err)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: domain.EntityTypePlant,
			EntityID:   plant.ID,
			Action:     domain.ActionCreatePlant,
			Details: domain.PlantCreatedDetails{
				Strain:            plant.Strain,
				RoomID:            plant.RoomID,
				Phase:             plant.Phase,
				SourceInventoryID: input.SourceInventoryID,
				ConsumedQuantity:  input.ConsumeAmount,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return domain.Plant{}, err
	}

	s.log.InfoContext(ctx, "plant created",
		"plant_id", plant.ID, "strain", plant.Strain, "room_id", plant.RoomID)

	return plant, nil
}
