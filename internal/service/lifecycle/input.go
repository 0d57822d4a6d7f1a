package lifecycle

import (
	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// CreatePlantInput holds the parameters for creating a plant.
type CreatePlantInput struct {
	Strain string
	RoomID uuid.UUID
	Phase  domain.PlantPhase
	Notes  string

	// SourceInventoryID, when set, consumes ConsumeAmount units (seeds or
	// clones) from that item atomically with the plant creation.
	SourceInventoryID *uuid.UUID
	ConsumeAmount     int
}

// Validate checks all fields and collects all errors.
func (i *CreatePlantInput) Validate() error {
	var errs []domain.FieldError

	if i.Strain == "" {
		errs = append(errs, domain.FieldError{Field: "strain", Message: "required"})
	}
	if i.RoomID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "room_id", Message: "required"})
	}
	if !i.Phase.IsValid() {
		errs = append(errs, domain.FieldError{Field: "phase", Message: "unknown phase"})
	}
	if i.SourceInventoryID != nil && i.ConsumeAmount < 1 {
		errs = append(errs, domain.FieldError{Field: "consume_amount", Message: "must be at least 1 when a source is given"})
	}
	if i.SourceInventoryID == nil && i.ConsumeAmount != 0 {
		errs = append(errs, domain.FieldError{Field: "consume_amount", Message: "requires source_inventory_id"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdatePlantInput holds the parameters for patching a plant.
type UpdatePlantInput struct {
	PlantID uuid.UUID
	Patch   domain.PlantPatch
}

// Validate checks all fields and collects all errors.
func (i *UpdatePlantInput) Validate() error {
	var errs []domain.FieldError

	if i.PlantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "plant_id", Message: "required"})
	}
	if i.Patch.IsEmpty() {
		errs = append(errs, domain.FieldError{Field: "patch", Message: "at least one field must be set"})
	}
	if i.Patch.Strain != nil && *i.Patch.Strain == "" {
		errs = append(errs, domain.FieldError{Field: "strain", Message: "must not be empty"})
	}
	if i.Patch.Phase != nil && !i.Patch.Phase.IsValid() {
		errs = append(errs, domain.FieldError{Field: "phase", Message: "unknown phase"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DeletePlantInput holds the parameters for soft-deleting a plant.
type DeletePlantInput struct {
	PlantID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *DeletePlantInput) Validate() error {
	var errs []domain.FieldError

	if i.PlantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "plant_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateRoomMoveInput holds the parameters for moving a plant or an inventory
// item between rooms. Exactly one of PlantID and InventoryItemID must be set.
type CreateRoomMoveInput struct {
	PlantID         *uuid.UUID
	InventoryItemID *uuid.UUID
	ToRoomID        uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *CreateRoomMoveInput) Validate() error {
	var errs []domain.FieldError

	if (i.PlantID == nil) == (i.InventoryItemID == nil) {
		errs = append(errs, domain.FieldError{Field: "target", Message: "exactly one of plant_id and inventory_item_id must be set"})
	}
	if i.ToRoomID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "to_room_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ConvertToMotherInput holds the parameters for promoting a plant to mother.
type ConvertToMotherInput struct {
	PlantID uuid.UUID
	Notes   string
}

// Validate checks all fields and collects all errors.
func (i *ConvertToMotherInput) Validate() error {
	var errs []domain.FieldError

	if i.PlantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "plant_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GenerateOffspringInput holds the parameters for generating clones or seeds
// from a mother plant.
type GenerateOffspringInput struct {
	MotherPlantID uuid.UUID
	Quantity      int
	RoomID        uuid.UUID
	Notes         string
}

func (i *GenerateOffspringInput) validate(maxPerBatch int) error {
	var errs []domain.FieldError

	if i.MotherPlantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "mother_plant_id", Message: "required"})
	}
	if i.Quantity < 1 {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must be at least 1"})
	} else if i.Quantity > maxPerBatch {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "exceeds batch limit"})
	}
	if i.RoomID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "room_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateHarvestInput holds the wet weights recorded at harvest time.
type CreateHarvestInput struct {
	PlantID               uuid.UUID
	BatchID               string
	WetFlowerWeightGrams  float64
	WetOtherMaterialGrams float64
	WetWasteWeightGrams   float64
}

// Validate checks all fields and collects all errors.
func (i *CreateHarvestInput) Validate() error {
	var errs []domain.FieldError

	if i.PlantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "plant_id", Message: "required"})
	}
	if i.WetFlowerWeightGrams < 0 {
		errs = append(errs, domain.FieldError{Field: "wet_flower_weight_grams", Message: "must be non-negative"})
	}
	if i.WetOtherMaterialGrams < 0 {
		errs = append(errs, domain.FieldError{Field: "wet_other_material_grams", Message: "must be non-negative"})
	}
	if i.WetWasteWeightGrams < 0 {
		errs = append(errs, domain.FieldError{Field: "wet_waste_weight_grams", Message: "must be non-negative"})
	}
	if i.WetFlowerWeightGrams+i.WetOtherMaterialGrams+i.WetWasteWeightGrams <= 0 {
		errs = append(errs, domain.FieldError{Field: "wet_weights", Message: "total wet weight must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateCureInput holds the dry weights recorded after curing a harvest.
type CreateCureInput struct {
	HarvestID             uuid.UUID
	DryFlowerWeightGrams  float64
	DryOtherMaterialGrams float64
	DryWasteWeightGrams   float64
}

// Validate checks all fields and collects all errors. Cross-checks against
// the harvest baseline happen in CreateCure after the harvest is loaded.
func (i *CreateCureInput) Validate() error {
	var errs []domain.FieldError

	if i.HarvestID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "harvest_id", Message: "required"})
	}
	if i.DryFlowerWeightGrams < 0 {
		errs = append(errs, domain.FieldError{Field: "dry_flower_weight_grams", Message: "must be non-negative"})
	}
	if i.DryOtherMaterialGrams < 0 {
		errs = append(errs, domain.FieldError{Field: "dry_other_material_grams", Message: "must be non-negative"})
	}
	if i.DryWasteWeightGrams < 0 {
		errs = append(errs, domain.FieldError{Field: "dry_waste_weight_grams", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateDestructionInput holds the parameters for destroying a plant or
// inventory material. Exactly one of PlantID and InventoryItemID must be set.
type CreateDestructionInput struct {
	PlantID          *uuid.UUID
	InventoryItemID  *uuid.UUID
	Reason           string
	WasteWeightGrams float64
}

// Validate checks all fields and collects all errors.
func (i *CreateDestructionInput) Validate() error {
	var errs []domain.FieldError

	if (i.PlantID == nil) == (i.InventoryItemID == nil) {
		errs = append(errs, domain.FieldError{Field: "target", Message: "exactly one of plant_id and inventory_item_id must be set"})
	}
	if i.Reason == "" {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "required"})
	}
	if i.WasteWeightGrams <= 0 {
		errs = append(errs, domain.FieldError{Field: "waste_weight_grams", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UndoOperationInput holds the parameters for reversing a prior operation.
type UndoOperationInput struct {
	AuditLogID uuid.UUID
	Reason     string
}

// Validate checks all fields and collects all errors.
func (i *UndoOperationInput) Validate() error {
	var errs []domain.FieldError

	if i.AuditLogID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "audit_log_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
