package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// CreateHarvest records the immutable wet-weight baseline for a plant and
// advances the plant to the HARVESTED phase.
func (s *Service) CreateHarvest(ctx context.Context, input CreateHarvestInput) (domain.Harvest, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Harvest{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return domain.Harvest{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Harvest{}, err
	}

	plant, err := s.plants.GetByID(ctx, locationID, input.PlantID)
	if err != nil {
		return domain.Harvest{}, fmt.Errorf("get plant: %w", err)
	}
	if plant.Status == domain.PlantDestroyed {
		return domain.Harvest{}, domain.NewValidationError("plant_id", "plant is destroyed")
	}

	var harvest domain.Harvest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		harvest, txErr = s.harvests.CreateHarvest(txCtx, domain.Harvest{
			LocationID:            locationID,
			PlantID:               plant.ID,
			BatchID:               input.BatchID,
			WetFlowerWeightGrams:  input.WetFlowerWeightGrams,
			WetOtherMaterialGrams: input.WetOtherMaterialGrams,
			WetWasteWeightGrams:   input.WetWasteWeightGrams,
		})
		if txErr != nil {
			return fmt.Errorf("create harvest: %w", txErr)
		}

		phase := domain.PhaseHarvested
		if _, err := s.plants.Update(txCtx, locationID, plant.ID, domain.PlantPatch{Phase: &phase}); err != nil {
			return fmt.Errorf("update plant phase: %w", err)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: domain.EntityTypeHarvest,
			EntityID:   harvest.ID,
			Action:     domain.ActionCreateHarvest,
			Details: domain.HarvestDetails{
				BatchID:               harvest.BatchID,
				WetFlowerWeightGrams:  harvest.WetFlowerWeightGrams,
				WetOtherMaterialGrams: harvest.WetOtherMaterialGrams,
				WetWasteWeightGrams:   harvest.WetWasteWeightGrams,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return domain.Harvest{}, err
	}

	s.log.InfoContext(ctx, "harvest created",
		"harvest_id", harvest.ID, "plant_id", plant.ID, "wet_total_grams", harvest.WetTotalGrams())

	return harvest, nil
}

// CreateCure records the dry weights produced from a harvest and materializes
// them as inventory: dry flower and other material become items of the fixed
// cured types, declared waste becomes a destruction record. Every dry
// component must stay within its wet counterpart and the dry total within the
// wet total; a violation rejects the whole operation before anything is
// written.
func (s *Service) CreateCure(ctx context.Context, input CreateCureInput) (CureResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return CureResult{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return CureResult{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return CureResult{}, err
	}

	harvest, err := s.harvests.GetHarvestByID(ctx, locationID, input.HarvestID)
	if err != nil {
		return CureResult{}, fmt.Errorf("get harvest: %w", err)
	}
	plant, err := s.plants.GetByID(ctx, locationID, harvest.PlantID)
	if err != nil {
		return CureResult{}, fmt.Errorf("get plant: %w", err)
	}

	if err := validateCureAgainstHarvest(input, harvest); err != nil {
		return CureResult{}, err
	}

	// Resolve the cured types up front so a missing reference type fails
	// before the transaction opens.
	var flowerType, otherType domain.InventoryType
	if input.DryFlowerWeightGrams > 0 {
		flowerType, err = s.types.GetByName(ctx, domain.TypeNameCuredFlower)
		if err != nil {
			return CureResult{}, fmt.Errorf("get %s inventory type: %w", domain.TypeNameCuredFlower, err)
		}
	}
	if input.DryOtherMaterialGrams > 0 {
		otherType, err = s.types.GetByName(ctx, domain.TypeNameCuredOtherMaterial)
		if err != nil {
			return CureResult{}, fmt.Errorf("get %s inventory type: %w", domain.TypeNameCuredOtherMaterial, err)
		}
	}

	var result CureResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		cure, txErr := s.harvests.CreateCure(txCtx, domain.Cure{
			LocationID:            locationID,
			HarvestID:             harvest.ID,
			PlantID:               plant.ID,
			DryFlowerWeightGrams:  input.DryFlowerWeightGrams,
			DryOtherMaterialGrams: input.DryOtherMaterialGrams,
			DryWasteWeightGrams:   input.DryWasteWeightGrams,
		})
		if txErr != nil {
			return fmt.Errorf("create cure: %w", txErr)
		}

		var (
			items       []domain.InventoryItem
			itemIDs     []uuid.UUID
			destruction *domain.Destruction
		)

		roomID := plant.RoomID
		for _, out := range []struct {
			typ    domain.InventoryType
			weight float64
		}{
			{flowerType, input.DryFlowerWeightGrams},
			{otherType, input.DryOtherMaterialGrams},
		} {
			if out.weight <= 0 {
				continue
			}
			item, err := s.createItemWithBarcode(txCtx, domain.InventoryItem{
				LocationID:      locationID,
				InventoryTypeID: out.typ.ID,
				RoomID:          &roomID,
				Strain:          plant.Strain,
				BatchNumber:     harvest.BatchID,
				WeightGrams:     out.weight,
			})
			if err != nil {
				return fmt.Errorf("create cured inventory: %w", err)
			}
			items = append(items, item)
			itemIDs = append(itemIDs, item.ID)
		}

		if input.DryWasteWeightGrams > 0 {
			plantID := plant.ID
			d, err := s.destructions.Create(txCtx, domain.Destruction{
				LocationID:       locationID,
				PlantID:          &plantID,
				Reason:           "cure waste",
				WasteWeightGrams: input.DryWasteWeightGrams,
			})
			if err != nil {
				return fmt.Errorf("create waste destruction: %w", err)
			}
			destruction = &d

			auditErr := s.audit.Log(txCtx, domain.AuditRecord{
				UserID:     &userID,
				LocationID: locationID,
				Module:     domain.ModuleCultivation,
				EntityType: domain.EntityTypePlant,
				EntityID:   plant.ID,
				Action:     domain.ActionCreateDestruction,
				Details: domain.DestructionDetails{
					Reason:           d.Reason,
					WasteWeightGrams: d.WasteWeightGrams,
				},
			})
			if auditErr != nil {
				return fmt.Errorf("audit waste destruction: %w", auditErr)
			}
		}

		phase := domain.PhaseCured
		if _, err := s.plants.Update(txCtx, locationID, plant.ID, domain.PlantPatch{Phase: &phase}); err != nil {
			return fmt.Errorf("update plant phase: %w", err)
		}

		var destructionID *uuid.UUID
		if destruction != nil {
			destructionID = &destruction.ID
		}
		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: domain.EntityTypeCure,
			EntityID:   cure.ID,
			Action:     domain.ActionCreateCure,
			Details: domain.CureDetails{
				HarvestID:             harvest.ID,
				DryFlowerWeightGrams:  cure.DryFlowerWeightGrams,
				DryOtherMaterialGrams: cure.DryOtherMaterialGrams,
				DryWasteWeightGrams:   cure.DryWasteWeightGrams,
				CreatedItemIDs:        itemIDs,
				WasteDestructionID:    destructionID,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		result = CureResult{Cure: cure, InventoryItems: items, WasteDestruction: destruction}
		return nil
	})
	if err != nil {
		return CureResult{}, err
	}

	s.log.InfoContext(ctx, "cure created",
		"cure_id", result.Cure.ID, "harvest_id", harvest.ID,
		"dry_total_grams", result.Cure.DryTotalGrams(), "items_created", len(result.InventoryItems))

	return result, nil
}

// validateCureAgainstHarvest enforces the mass-balance invariants between
// dry cure weights and the harvest wet baseline.
func validateCureAgainstHarvest(input CreateCureInput, h domain.Harvest) error {
	var errs []domain.FieldError

	if input.DryFlowerWeightGrams > h.WetFlowerWeightGrams {
		errs = append(errs, domain.FieldError{Field: "dry_flower_weight_grams", Message: "exceeds harvest wet flower weight"})
	}
	if input.DryOtherMaterialGrams > h.WetOtherMaterialGrams {
		errs = append(errs, domain.FieldError{Field: "dry_other_material_grams", Message: "exceeds harvest wet other material weight"})
	}
	if input.DryWasteWeightGrams > h.WetWasteWeightGrams {
		errs = append(errs, domain.FieldError{Field: "dry_waste_weight_grams", Message: "exceeds harvest wet waste weight"})
	}
	dryTotal := input.DryFlowerWeightGrams + input.DryOtherMaterialGrams + input.DryWasteWeightGrams
	if dryTotal > h.WetTotalGrams() {
		errs = append(errs, domain.FieldError{Field: "dry_weights", Message: "dry total exceeds harvest wet total"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
