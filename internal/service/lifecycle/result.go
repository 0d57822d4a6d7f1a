package lifecycle

import (
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// CureResult is the composite outcome of a cure: the cure record, the dry
// inventory items created from it, and the waste destruction record if any
// dry waste was declared.
type CureResult struct {
	Cure             domain.Cure
	InventoryItems   []domain.InventoryItem
	WasteDestruction *domain.Destruction
}

// RoomMoveResult pairs the movement log entry with the entity it moved.
type RoomMoveResult struct {
	Move domain.RoomMove

	// Exactly one of Plant and InventoryItem is set, matching the move target.
	Plant         *domain.Plant
	InventoryItem *domain.InventoryItem
}

// OffspringResult is the outcome of clone or seed generation: the updated
// mother plant and the inventory batch representing the offspring.
type OffspringResult struct {
	Mother domain.Plant
	Batch  domain.InventoryItem
}
