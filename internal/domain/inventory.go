package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known inventory type names used by curing. Cure output items are
// created against these names; a missing type is a validation error.
const (
	TypeNameCuredFlower        = "Cured Flower"
	TypeNameCuredOtherMaterial = "Cured Other Material"
	TypeNameClones             = "Clones"
	TypeNameSeeds              = "Seeds"
)

// InventoryType is static reference data describing a kind of inventory.
// Immutable once in active use except soft deactivation.
type InventoryType struct {
	ID         uuid.UUID
	Name       string
	Category   InventoryCategory
	Unit       string
	IsSource   bool
	IsWaste    bool
	CanConvert bool
	Active     bool
	CreatedAt  time.Time
}

// InventoryItem is a tracked batch of material owned by a location.
// Weight and quantity are never negative; decrements are guarded by
// conditional updates at the persistence layer.
type InventoryItem struct {
	ID              uuid.UUID
	LocationID      uuid.UUID
	InventoryTypeID uuid.UUID
	RoomID          *uuid.UUID
	StrainID        *uuid.UUID
	Strain          string
	BatchNumber     string
	Barcode         string
	// WeightGrams is the gross material weight of the batch.
	WeightGrams float64
	// UsableWeightGrams is the portion of WeightGrams sellable as product.
	// Zero for categories where the distinction does not apply.
	UsableWeightGrams float64
	// Quantity counts discrete units (clones, seeds, finished-goods units).
	Quantity  int
	Status    InventoryStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InventoryFilter defines parameters for listing inventory items.
type InventoryFilter struct {
	LocationID uuid.UUID

	// IDs restricts the result to the given item ids (used by the
	// conversion query side after audit-log filtering).
	IDs []uuid.UUID

	Category *InventoryCategory
	Status   *InventoryStatus
	RoomID   *uuid.UUID
	Strain   *string

	Limit  int
	Offset int
}
