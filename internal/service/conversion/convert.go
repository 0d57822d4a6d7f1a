package conversion

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// ConvertWetToDry dries wet material into a dry-category item.
func (s *Service) ConvertWetToDry(ctx context.Context, input ConvertWetToDryInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	return s.convert(ctx, conversionParams{
		Type:              domain.ConversionWetToDry,
		SourceItemID:      input.SourceItemID,
		OutputTypeID:      input.OutputTypeID,
		RoomID:            input.RoomID,
		InputWeightGrams:  input.InputWeightGrams,
		OutputWeightGrams: input.OutputWeightGrams,
	})
}

// ConvertDryToExtraction processes dry material into an extraction-category
// item, recording the extraction method used.
func (s *Service) ConvertDryToExtraction(ctx context.Context, input ConvertDryToExtractionInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	return s.convert(ctx, conversionParams{
		Type:              domain.ConversionDryToExtraction,
		SourceItemID:      input.SourceItemID,
		OutputTypeID:      input.OutputTypeID,
		RoomID:            input.RoomID,
		InputWeightGrams:  input.InputWeightGrams,
		OutputWeightGrams: input.OutputWeightGrams,
		ExtractionMethod:  input.ExtractionMethod,
	})
}

// ConvertExtractionToFinishedGoods packages extracted material into finished
// goods, recording the sellable weight, unit count, and SKU.
func (s *Service) ConvertExtractionToFinishedGoods(ctx context.Context, input ConvertExtractionToFinishedGoodsInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	return s.convert(ctx, conversionParams{
		Type:              domain.ConversionExtractionToFinishedGood,
		SourceItemID:      input.SourceItemID,
		OutputTypeID:      input.OutputTypeID,
		RoomID:            input.RoomID,
		InputWeightGrams:  input.InputWeightGrams,
		OutputWeightGrams: input.OutputWeightGrams,
		UsableWeightGrams: input.UsableWeightGrams,
		UnitsProduced:     input.UnitsProduced,
		SKU:               input.SKU,
	})
}

// conversionParams is the normalized form of the three conversion inputs.
type conversionParams struct {
	Type              domain.ConversionType
	SourceItemID      uuid.UUID
	OutputTypeID      uuid.UUID
	RoomID            uuid.UUID
	InputWeightGrams  float64
	OutputWeightGrams float64
	ExtractionMethod  string
	UsableWeightGrams float64
	UnitsProduced     int
	SKU               string
}

// convert runs the shared conversion contract: load and check the source,
// check categories, weights, and room, then transactionally create the output
// item, decrement the source, and write the audit record.
func (s *Service) convert(ctx context.Context, p conversionParams) (Result, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return Result{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return Result{}, domain.ErrUnauthorized
	}

	source, sourceType, err := s.inventory.GetByIDWithType(ctx, locationID, p.SourceItemID)
	if err != nil {
		return Result{}, fmt.Errorf("get source item: %w", err)
	}
	if sourceType.Category != p.Type.SourceCategory() {
		return Result{}, domain.NewValidationError("source_item_id",
			fmt.Sprintf("source must be %s material, got %s", p.Type.SourceCategory(), sourceType.Category))
	}
	if source.WeightGrams < p.InputWeightGrams {
		return Result{}, domain.NewValidationError("input_weight_grams", "exceeds available source weight")
	}

	outputType, err := s.types.GetByID(ctx, p.OutputTypeID)
	if err != nil {
		return Result{}, fmt.Errorf("get output type: %w", err)
	}
	if !outputType.Active {
		return Result{}, domain.NewValidationError("output_type_id", "inventory type is not active")
	}
	if outputType.Category != p.Type.OutputCategory() {
		return Result{}, domain.NewValidationError("output_type_id",
			fmt.Sprintf("output must be a %s type, got %s", p.Type.OutputCategory(), outputType.Category))
	}

	room, err := s.rooms.GetByID(ctx, locationID, p.RoomID)
	if err != nil {
		return Result{}, fmt.Errorf("get room: %w", err)
	}
	if !room.Usable() {
		return Result{}, domain.NewValidationError("room_id", "room is not active")
	}

	loss := p.InputWeightGrams - p.OutputWeightGrams
	lossPct := round2(loss / p.InputWeightGrams * 100)

	var output domain.InventoryItem
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		roomID := p.RoomID
		var txErr error
		output, txErr = s.createItemWithBarcode(txCtx, domain.InventoryItem{
			LocationID:        locationID,
			InventoryTypeID:   outputType.ID,
			RoomID:            &roomID,
			StrainID:          source.StrainID,
			Strain:            source.Strain,
			BatchNumber:       source.BatchNumber,
			WeightGrams:       p.OutputWeightGrams,
			UsableWeightGrams: p.UsableWeightGrams,
			Quantity:          p.UnitsProduced,
		})
		if txErr != nil {
			return fmt.Errorf("create output item: %w", txErr)
		}

		if err := s.inventory.DecrementWeight(txCtx, locationID, source.ID, p.InputWeightGrams); err != nil {
			return fmt.Errorf("decrement source weight: %w", err)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleConversion,
			EntityType: domain.EntityTypeInventory,
			EntityID:   output.ID,
			Action:     domain.ActionConversion,
			Details: domain.ConversionDetails{
				Type:              p.Type,
				SourceItemID:      source.ID,
				OutputItemID:      output.ID,
				RoomID:            p.RoomID,
				Strain:            source.Strain,
				InputWeightGrams:  p.InputWeightGrams,
				OutputWeightGrams: p.OutputWeightGrams,
				MaterialLossGrams: loss,
				LossPercentage:    lossPct,
				ExtractionMethod:  p.ExtractionMethod,
				UsableWeightGrams: p.UsableWeightGrams,
				UnitsProduced:     p.UnitsProduced,
				SKU:               p.SKU,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.log.InfoContext(ctx, "conversion completed",
		"type", string(p.Type), "source_item_id", source.ID, "output_item_id", output.ID,
		"input_grams", p.InputWeightGrams, "output_grams", p.OutputWeightGrams, "loss_pct", lossPct)

	return Result{
		OutputItem:        output,
		InputWeightGrams:  p.InputWeightGrams,
		OutputWeightGrams: p.OutputWeightGrams,
		MaterialLossGrams: loss,
		LossPercentage:    lossPct,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
