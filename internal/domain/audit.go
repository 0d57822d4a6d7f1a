package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one immutable row of the audit log. Every mutating
// operation writes at least one record inside the same transaction as the
// mutation itself; a failed audit write rolls the whole operation back.
type AuditRecord struct {
	ID         uuid.UUID
	UserID     *uuid.UUID // nil for system actions
	LocationID uuid.UUID
	Module     Module
	EntityType EntityType
	EntityID   uuid.UUID
	Action     AuditAction
	Details    AuditDetails
	CreatedAt  time.Time
}

// AuditDetails is the structured payload of an audit record. The concrete
// type is determined by the record's Action — a tagged union rather than an
// untyped blob, so each action's payload is strongly typed.
type AuditDetails interface {
	AuditAction() AuditAction
}

// PlantCreatedDetails records the inputs of a plant creation, including the
// amount consumed from source inventory (zero when no source was used).
type PlantCreatedDetails struct {
	Strain            string     `json:"strain"`
	RoomID            uuid.UUID  `json:"room_id"`
	Phase             PlantPhase `json:"phase"`
	SourceInventoryID *uuid.UUID `json:"source_inventory_id,omitempty"`
	ConsumedQuantity  int        `json:"consumed_quantity,omitempty"`
}

func (PlantCreatedDetails) AuditAction() AuditAction { return ActionCreatePlant }

// PlantUpdatedDetails captures old and new values of patched plant fields.
// Nil pairs mean the field was not touched.
type PlantUpdatedDetails struct {
	OldStrain *string     `json:"old_strain,omitempty"`
	NewStrain *string     `json:"new_strain,omitempty"`
	OldRoomID *uuid.UUID  `json:"old_room_id,omitempty"`
	NewRoomID *uuid.UUID  `json:"new_room_id,omitempty"`
	OldPhase  *PlantPhase `json:"old_phase,omitempty"`
	NewPhase  *PlantPhase `json:"new_phase,omitempty"`
}

func (PlantUpdatedDetails) AuditAction() AuditAction { return ActionUpdatePlant }

// PlantDeletedDetails records the soft-deletion timestamp.
type PlantDeletedDetails struct {
	DeletedAt time.Time `json:"deleted_at"`
}

func (PlantDeletedDetails) AuditAction() AuditAction { return ActionDeletePlant }

// RoomMoveDetails is the old-value snapshot that makes a room move
// reversible through UndoOperation.
type RoomMoveDetails struct {
	Target     EntityType `json:"target"`
	FromRoomID *uuid.UUID `json:"from_room_id,omitempty"`
	ToRoomID   uuid.UUID  `json:"to_room_id"`
}

func (RoomMoveDetails) AuditAction() AuditAction { return ActionMoveRoom }

// MotherConversionDetails records a plant's promotion to mother status.
type MotherConversionDetails struct {
	Notes     string      `json:"notes,omitempty"`
	OldStatus PlantStatus `json:"old_status"`
}

func (MotherConversionDetails) AuditAction() AuditAction { return ActionConvertToMother }

// OffspringDetails records a clone or seed generation batch. Kind is either
// ActionGenerateClones or ActionGenerateSeeds.
type OffspringDetails struct {
	Kind            AuditAction `json:"kind"`
	Quantity        int         `json:"quantity"`
	RoomID          uuid.UUID   `json:"room_id"`
	InventoryItemID uuid.UUID   `json:"inventory_item_id"`
	Notes           string      `json:"notes,omitempty"`
}

func (d OffspringDetails) AuditAction() AuditAction { return d.Kind }

// HarvestDetails records the immutable wet-weight baseline.
type HarvestDetails struct {
	BatchID               string  `json:"batch_id"`
	WetFlowerWeightGrams  float64 `json:"wet_flower_weight_grams"`
	WetOtherMaterialGrams float64 `json:"wet_other_material_grams"`
	WetWasteWeightGrams   float64 `json:"wet_waste_weight_grams"`
}

func (HarvestDetails) AuditAction() AuditAction { return ActionCreateHarvest }

// CureDetails records the dry weights and the inventory items created
// from them.
type CureDetails struct {
	HarvestID             uuid.UUID   `json:"harvest_id"`
	DryFlowerWeightGrams  float64     `json:"dry_flower_weight_grams"`
	DryOtherMaterialGrams float64     `json:"dry_other_material_grams"`
	DryWasteWeightGrams   float64     `json:"dry_waste_weight_grams"`
	CreatedItemIDs        []uuid.UUID `json:"created_item_ids,omitempty"`
	WasteDestructionID    *uuid.UUID  `json:"waste_destruction_id,omitempty"`
}

func (CureDetails) AuditAction() AuditAction { return ActionCreateCure }

// DestructionDetails records the reason and weight of destroyed material.
type DestructionDetails struct {
	Reason           string  `json:"reason"`
	WasteWeightGrams float64 `json:"waste_weight_grams"`
}

func (DestructionDetails) AuditAction() AuditAction { return ActionCreateDestruction }

// ConversionDetails captures everything needed to reconstruct a conversion:
// pipeline step, source and output items, mass balance, and type-specific
// metadata (extraction method, usable weight, units produced, SKU).
type ConversionDetails struct {
	Type              ConversionType `json:"type"`
	SourceItemID      uuid.UUID      `json:"source_item_id"`
	OutputItemID      uuid.UUID      `json:"output_item_id"`
	RoomID            uuid.UUID      `json:"room_id"`
	Strain            string         `json:"strain,omitempty"`
	InputWeightGrams  float64        `json:"input_weight_grams"`
	OutputWeightGrams float64        `json:"output_weight_grams"`
	MaterialLossGrams float64        `json:"material_loss_grams"`
	LossPercentage    float64        `json:"loss_percentage"`
	ExtractionMethod  string         `json:"extraction_method,omitempty"`
	UsableWeightGrams float64        `json:"usable_weight_grams,omitempty"`
	UnitsProduced     int            `json:"units_produced,omitempty"`
	SKU               string         `json:"sku,omitempty"`
}

func (ConversionDetails) AuditAction() AuditAction { return ActionConversion }

// UndoDetails references the audit record whose effect was reversed.
type UndoDetails struct {
	OriginalAuditID uuid.UUID `json:"original_audit_id"`
	Reason          string    `json:"reason,omitempty"`
}

func (UndoDetails) AuditAction() AuditAction { return ActionUndoOperation }

// AuditFilter defines parameters for querying audit records.
type AuditFilter struct {
	LocationID uuid.UUID
	EntityType *EntityType
	EntityID   *uuid.UUID
	UserID     *uuid.UUID
	Action     *AuditAction
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// EncodeAuditDetails serializes a details payload for JSONB storage.
func EncodeAuditDetails(d AuditDetails) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode audit details: %w", err)
	}
	return raw, nil
}

// DecodeAuditDetails deserializes a stored payload into the concrete type
// for the given action.
func DecodeAuditDetails(action AuditAction, raw []byte) (AuditDetails, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	decode := func(dst AuditDetails) (AuditDetails, error) {
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", action, err)
		}
		return dst, nil
	}

	switch action {
	case ActionCreatePlant:
		return decode(&PlantCreatedDetails{})
	case ActionUpdatePlant:
		return decode(&PlantUpdatedDetails{})
	case ActionDeletePlant:
		return decode(&PlantDeletedDetails{})
	case ActionMoveRoom:
		return decode(&RoomMoveDetails{})
	case ActionConvertToMother:
		return decode(&MotherConversionDetails{})
	case ActionGenerateClones, ActionGenerateSeeds:
		return decode(&OffspringDetails{})
	case ActionCreateHarvest:
		return decode(&HarvestDetails{})
	case ActionCreateCure:
		return decode(&CureDetails{})
	case ActionCreateDestruction:
		return decode(&DestructionDetails{})
	case ActionConversion:
		return decode(&ConversionDetails{})
	case ActionUndoOperation:
		return decode(&UndoDetails{})
	default:
		return nil, fmt.Errorf("decode audit details: unknown action %q", action)
	}
}
