package lifecycle

import (
	"context"
	"fmt"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// ConvertToMother promotes an active plant to mother status, enabling clone
// and seed generation. A plant in any other status is rejected as a
// validation error, not a not-found.
func (s *Service) ConvertToMother(ctx context.Context, input ConvertToMotherInput) (domain.Plant, error) {
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
	if before.Status != domain.PlantActive {
		return domain.Plant{}, domain.NewValidationError("plant_id", "plant must be in ACTIVE status")
	}

	var mother domain.Plant
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		mother, txErr = s.plants.SetMother(txCtx, locationID, input.PlantID)
		if txErr != nil {
			return fmt.Errorf("set mother: %w", txErr)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: domain.EntityTypePlant,
			EntityID:   mother.ID,
			Action:     domain.ActionConvertToMother,
			Details: domain.MotherConversionDetails{
				Notes:     input.Notes,
				OldStatus: before.Status,
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

	s.log.InfoContext(ctx, "plant promoted to mother", "plant_id", mother.ID)
	return mother, nil
}

// GenerateClones creates a clone batch from a mother plant: a new inventory
// item of the Clones type plus an atomic increment of the mother's clone
// counter.
func (s *Service) GenerateClones(ctx context.Context, input GenerateOffspringInput) (OffspringResult, error) {
	return s.generateOffspring(ctx, input, domain.ActionGenerateClones)
}

// GenerateSeeds creates a seed batch from a mother plant.
func (s *Service) GenerateSeeds(ctx context.Context, input GenerateOffspringInput) (OffspringResult, error) {
	return s.generateOffspring(ctx, input, domain.ActionGenerateSeeds)
}

func (s *Service) generateOffspring(ctx context.Context, input GenerateOffspringInput, kind domain.AuditAction) (OffspringResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return OffspringResult{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return OffspringResult{}, domain.ErrUnauthorized
	}

	if err := input.validate(s.cfg.MaxOffspringPerBatch); err != nil {
		return OffspringResult{}, err
	}

	mother, err := s.plants.GetByID(ctx, locationID, input.MotherPlantID)
	if err != nil {
		return OffspringResult{}, fmt.Errorf("get mother plant: %w", err)
	}
	if !mother.IsMother {
		return OffspringResult{}, domain.NewValidationError("mother_plant_id", "plant is not a mother")
	}

	if _, err := s.checkRoom(ctx, locationID, input.RoomID); err != nil {
		return OffspringResult{}, err
	}

	typeName := domain.TypeNameClones
	if kind == domain.ActionGenerateSeeds {
		typeName = domain.TypeNameSeeds
	}
	offspringType, err := s.types.GetByName(ctx, typeName)
	if err != nil {
		return OffspringResult{}, fmt.Errorf("get %s inventory type: %w", typeName, err)
	}

	var result OffspringResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		roomID := input.RoomID
		batch, txErr := s.createItemWithBarcode(txCtx, domain.InventoryItem{
			LocationID:      locationID,
			InventoryTypeID: offspringType.ID,
			RoomID:          &roomID,
			Strain:          mother.Strain,
			Quantity:        input.Quantity,
		})
		if txErr != nil {
			return fmt.Errorf("create offspring batch: %w", txErr)
		}

		clones, seeds := input.Quantity, 0
		if kind == domain.ActionGenerateSeeds {
			clones, seeds = 0, input.Quantity
		}
		if err := s.plants.IncrementOffspring(txCtx, locationID, mother.ID, clones, seeds); err != nil {
			return fmt.Errorf("increment offspring counter: %w", err)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: domain.EntityTypePlant,
			EntityID:   mother.ID,
			Action:     kind,
			Details: domain.OffspringDetails{
				Kind:            kind,
				Quantity:        input.Quantity,
				RoomID:          input.RoomID,
				InventoryItemID: batch.ID,
				Notes:           input.Notes,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		updatedMother := mother
		updatedMother.CloneCount += clones
		updatedMother.SeedCount += seeds
		result = OffspringResult{Mother: updatedMother, Batch: batch}
		return nil
	})
	if err != nil {
		return OffspringResult{}, err
	}

	s.log.InfoContext(ctx, "offspring generated",
		"mother_plant_id", mother.ID, "kind", string(kind), "quantity", input.Quantity)

	return result, nil
}
