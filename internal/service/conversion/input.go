package conversion

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// ConvertWetToDryInput holds the parameters for drying wet material.
type ConvertWetToDryInput struct {
	SourceItemID      uuid.UUID
	OutputTypeID      uuid.UUID
	RoomID            uuid.UUID
	InputWeightGrams  float64
	OutputWeightGrams float64
}

// Validate checks all fields and collects all errors.
func (i *ConvertWetToDryInput) Validate() error {
	return validateBase(i.SourceItemID, i.OutputTypeID, i.RoomID, i.InputWeightGrams, i.OutputWeightGrams, nil)
}

// ConvertDryToExtractionInput holds the parameters for extracting dry
// material.
type ConvertDryToExtractionInput struct {
	SourceItemID      uuid.UUID
	OutputTypeID      uuid.UUID
	RoomID            uuid.UUID
	InputWeightGrams  float64
	OutputWeightGrams float64
	ExtractionMethod  string
}

// Validate checks all fields and collects all errors.
func (i *ConvertDryToExtractionInput) Validate() error {
	var extra []domain.FieldError
	if i.ExtractionMethod == "" {
		extra = append(extra, domain.FieldError{Field: "extraction_method", Message: "required"})
	}
	return validateBase(i.SourceItemID, i.OutputTypeID, i.RoomID, i.InputWeightGrams, i.OutputWeightGrams, extra)
}

// ConvertExtractionToFinishedGoodsInput holds the parameters for packaging
// extracted material into finished goods.
type ConvertExtractionToFinishedGoodsInput struct {
	SourceItemID      uuid.UUID
	OutputTypeID      uuid.UUID
	RoomID            uuid.UUID
	InputWeightGrams  float64
	OutputWeightGrams float64
	UsableWeightGrams float64
	UnitsProduced     int
	SKU               string
}

// Validate checks all fields and collects all errors.
func (i *ConvertExtractionToFinishedGoodsInput) Validate() error {
	var extra []domain.FieldError
	if i.UsableWeightGrams < 0 {
		extra = append(extra, domain.FieldError{Field: "usable_weight_grams", Message: "must be non-negative"})
	}
	if i.UsableWeightGrams > i.OutputWeightGrams {
		extra = append(extra, domain.FieldError{Field: "usable_weight_grams", Message: "must not exceed output weight"})
	}
	if i.UnitsProduced < 1 {
		extra = append(extra, domain.FieldError{Field: "units_produced", Message: "must be at least 1"})
	}
	return validateBase(i.SourceItemID, i.OutputTypeID, i.RoomID, i.InputWeightGrams, i.OutputWeightGrams, extra)
}

func validateBase(sourceID, outputTypeID, roomID uuid.UUID, inputWeight, outputWeight float64, extra []domain.FieldError) error {
	var errs []domain.FieldError

	if sourceID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "source_item_id", Message: "required"})
	}
	if outputTypeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "output_type_id", Message: "required"})
	}
	if roomID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "room_id", Message: "required"})
	}
	if inputWeight <= 0 {
		errs = append(errs, domain.FieldError{Field: "input_weight_grams", Message: "must be positive"})
	}
	if outputWeight <= 0 {
		errs = append(errs, domain.FieldError{Field: "output_weight_grams", Message: "must be positive"})
	}
	if outputWeight > inputWeight {
		errs = append(errs, domain.FieldError{Field: "output_weight_grams", Message: "must not exceed input weight"})
	}
	errs = append(errs, extra...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListConversionsInput holds the parameters for listing conversions within a
// date range.
type ListConversionsInput struct {
	From *time.Time
	To   *time.Time

	Type   *domain.ConversionType
	Strain *string
	RoomID *uuid.UUID

	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *ListConversionsInput) Validate() error {
	var errs []domain.FieldError

	if i.From != nil && i.To != nil && i.To.Before(*i.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not precede from"})
	}
	if i.Type != nil && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown conversion type"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
