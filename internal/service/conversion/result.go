package conversion

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// Result is the outcome of a conversion step: the created item and the mass
// balance against the consumed input.
type Result struct {
	OutputItem        domain.InventoryItem
	InputWeightGrams  float64
	OutputWeightGrams float64
	MaterialLossGrams float64
	LossPercentage    float64
}

// Conversion is the reconstructed view of a past conversion: the output item
// joined with the audit details that produced it.
type Conversion struct {
	AuditID   uuid.UUID
	Item      domain.InventoryItem
	Details   domain.ConversionDetails
	CreatedAt time.Time
}
