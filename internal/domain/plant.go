package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plant is a single tracked plant scoped to a location.
type Plant struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Strain     string
	RoomID     uuid.UUID
	Phase      PlantPhase
	Status     PlantStatus
	IsMother   bool
	Notes      string

	// SourceInventoryID references the inventory item (seeds or clones)
	// the plant was started from. Nil for plants entered directly.
	SourceInventoryID *uuid.UUID

	// CloneCount and SeedCount track offspring generated while the plant
	// is a mother. Incremented atomically, never read-modify-write.
	CloneCount int
	SeedCount  int

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// PlantPatch is a partial update of a plant. Nil fields are left unchanged.
type PlantPatch struct {
	Strain            *string
	RoomID            *uuid.UUID
	Phase             *PlantPhase
	Notes             *string
	SourceInventoryID *uuid.UUID
}

// IsEmpty reports whether the patch changes nothing.
func (p PlantPatch) IsEmpty() bool {
	return p.Strain == nil && p.RoomID == nil && p.Phase == nil &&
		p.Notes == nil && p.SourceInventoryID == nil
}

// Harvest is the immutable wet-weight baseline recorded once per harvest
// event. Cure validation is performed against these weights.
type Harvest struct {
	ID                    uuid.UUID
	LocationID            uuid.UUID
	PlantID               uuid.UUID
	BatchID               string
	WetFlowerWeightGrams  float64
	WetOtherMaterialGrams float64
	WetWasteWeightGrams   float64
	CreatedAt             time.Time
}

// WetTotalGrams is the combined wet weight of all harvest components.
func (h Harvest) WetTotalGrams() float64 {
	return h.WetFlowerWeightGrams + h.WetOtherMaterialGrams + h.WetWasteWeightGrams
}

// Cure records the dry weights produced from a harvest. Each dry component
// must not exceed its wet counterpart, and the dry total must not exceed
// the wet total.
type Cure struct {
	ID                    uuid.UUID
	LocationID            uuid.UUID
	HarvestID             uuid.UUID
	PlantID               uuid.UUID
	DryFlowerWeightGrams  float64
	DryOtherMaterialGrams float64
	DryWasteWeightGrams   float64
	CreatedAt             time.Time
}

// DryTotalGrams is the combined dry weight of all cure components.
func (c Cure) DryTotalGrams() float64 {
	return c.DryFlowerWeightGrams + c.DryOtherMaterialGrams + c.DryWasteWeightGrams
}

// RoomMove is one entry of the append-only movement log. Exactly one of
// PlantID and InventoryItemID is set.
type RoomMove struct {
	ID              uuid.UUID
	LocationID      uuid.UUID
	PlantID         *uuid.UUID
	InventoryItemID *uuid.UUID
	FromRoomID      *uuid.UUID
	ToRoomID        uuid.UUID
	CreatedAt       time.Time
}

// Destruction is a terminal record of destroyed material. Exactly one of
// PlantID and InventoryItemID is set.
type Destruction struct {
	ID               uuid.UUID
	LocationID       uuid.UUID
	PlantID          *uuid.UUID
	InventoryItemID  *uuid.UUID
	Reason           string
	WasteWeightGrams float64
	CreatedAt        time.Time
}
