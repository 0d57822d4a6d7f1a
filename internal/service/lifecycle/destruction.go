package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// CreateDestruction records a compliance destruction event against a plant or
// an inventory item. For inventory, the destroyed weight is deducted from the
// item under the non-negativity guard. For a plant, the plant is terminally
// marked destroyed and, when a harvest exists, the destroyed weight is
// deducted from its remaining wet flower.
func (s *Service) CreateDestruction(ctx context.Context, input CreateDestructionInput) (domain.Destruction, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Destruction{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return domain.Destruction{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Destruction{}, err
	}

	var (
		entityType domain.EntityType
		destroy    func(txCtx context.Context) error
	)

	switch {
	case input.PlantID != nil:
		plant, err := s.plants.GetByID(ctx, locationID, *input.PlantID)
		if err != nil {
			return domain.Destruction{}, fmt.Errorf("get plant: %w", err)
		}
		entityType = domain.EntityTypePlant
		destroy = func(txCtx context.Context) error {
			if err := s.plants.MarkDestroyed(txCtx, locationID, plant.ID); err != nil {
				return fmt.Errorf("mark plant destroyed: %w", err)
			}
			harvest, err := s.harvests.GetLatestByPlant(txCtx, locationID, plant.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("get latest harvest: %w", err)
			}
			if err := s.harvests.DecrementWetFlower(txCtx, locationID, harvest.ID, input.WasteWeightGrams); err != nil {
				return fmt.Errorf("decrement harvest wet flower: %w", err)
			}
			return nil
		}

	default:
		item, err := s.inventory.GetByID(ctx, locationID, *input.InventoryItemID)
		if err != nil {
			return domain.Destruction{}, fmt.Errorf("get inventory item: %w", err)
		}
		entityType = domain.EntityTypeInventory
		destroy = func(txCtx context.Context) error {
			if err := s.inventory.DecrementWeight(txCtx, locationID, item.ID, input.WasteWeightGrams); err != nil {
				return fmt.Errorf("decrement inventory weight: %w", err)
			}
			return nil
		}
	}

	var destruction domain.Destruction
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := destroy(txCtx); err != nil {
			return err
		}

		var txErr error
		destruction, txErr = s.destructions.Create(txCtx, domain.Destruction{
			LocationID:       locationID,
			PlantID:          input.PlantID,
			InventoryItemID:  input.InventoryItemID,
			Reason:           input.Reason,
			WasteWeightGrams: input.WasteWeightGrams,
		})
		if txErr != nil {
			return fmt.Errorf("create destruction: %w", txErr)
		}

		var entityID = destruction.ID
		switch {
		case input.PlantID != nil:
			entityID = *input.PlantID
		case input.InventoryItemID != nil:
			entityID = *input.InventoryItemID
		}
		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: entityType,
			EntityID:   entityID,
			Action:     domain.ActionCreateDestruction,
			Details: domain.DestructionDetails{
				Reason:           destruction.Reason,
				WasteWeightGrams: destruction.WasteWeightGrams,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return domain.Destruction{}, err
	}

	s.log.InfoContext(ctx, "destruction created",
		"destruction_id", destruction.ID, "entity_type", entityType,
		"waste_grams", destruction.WasteWeightGrams)

	return destruction, nil
}
