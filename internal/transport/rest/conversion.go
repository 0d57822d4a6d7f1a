package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/internal/service/conversion"
)

// conversionService defines the minimal interface needed by ConversionHandler.
type conversionService interface {
	ConvertWetToDry(ctx context.Context, input conversion.ConvertWetToDryInput) (conversion.Result, error)
	ConvertDryToExtraction(ctx context.Context, input conversion.ConvertDryToExtractionInput) (conversion.Result, error)
	ConvertExtractionToFinishedGoods(ctx context.Context, input conversion.ConvertExtractionToFinishedGoodsInput) (conversion.Result, error)
	GetConversion(ctx context.Context, itemID uuid.UUID) (conversion.Conversion, error)
	ListConversions(ctx context.Context, input conversion.ListConversionsInput) ([]conversion.Conversion, int, error)
}

// ConversionHandler serves the material conversion REST endpoints.
type ConversionHandler struct {
	svc conversionService
	log *slog.Logger
}

// NewConversionHandler creates a ConversionHandler.
func NewConversionHandler(svc conversionService, logger *slog.Logger) *ConversionHandler {
	return &ConversionHandler{svc: svc, log: logger.With("handler", "conversion")}
}

type convertRequest struct {
	SourceItemID      string  `json:"sourceItemId"`
	OutputTypeID      string  `json:"outputTypeId"`
	RoomID            string  `json:"roomId"`
	InputWeightGrams  float64 `json:"inputWeightGrams"`
	OutputWeightGrams float64 `json:"outputWeightGrams"`

	// Stage-specific fields.
	ExtractionMethod  string  `json:"extractionMethod,omitempty"`
	UsableWeightGrams float64 `json:"usableWeightGrams,omitempty"`
	UnitsProduced     int     `json:"unitsProduced,omitempty"`
	SKU               string  `json:"sku,omitempty"`
}

type conversionResultResponse struct {
	OutputItem        inventoryItemResponse `json:"outputItem"`
	InputWeightGrams  float64               `json:"inputWeightGrams"`
	OutputWeightGrams float64               `json:"outputWeightGrams"`
	MaterialLossGrams float64               `json:"materialLossGrams"`
	LossPercentage    float64               `json:"lossPercentage"`
}

type conversionRecordResponse struct {
	AuditID   uuid.UUID                `json:"auditId"`
	Item      inventoryItemResponse    `json:"item"`
	Details   domain.ConversionDetails `json:"details"`
	CreatedAt time.Time                `json:"createdAt"`
}

type conversionListResponse struct {
	Conversions []conversionRecordResponse `json:"conversions"`
	Total       int                        `json:"total"`
}

// WetToDry handles POST /conversions/wet-to-dry.
func (h *ConversionHandler) WetToDry(w http.ResponseWriter, r *http.Request) {
	base, ok := h.decodeConvertRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ConvertWetToDry(r.Context(), conversion.ConvertWetToDryInput{
		SourceItemID:      base.sourceItemID,
		OutputTypeID:      base.outputTypeID,
		RoomID:            base.roomID,
		InputWeightGrams:  base.req.InputWeightGrams,
		OutputWeightGrams: base.req.OutputWeightGrams,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConversionResultResponse(result))
}

// DryToExtraction handles POST /conversions/dry-to-extraction.
func (h *ConversionHandler) DryToExtraction(w http.ResponseWriter, r *http.Request) {
	base, ok := h.decodeConvertRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ConvertDryToExtraction(r.Context(), conversion.ConvertDryToExtractionInput{
		SourceItemID:      base.sourceItemID,
		OutputTypeID:      base.outputTypeID,
		RoomID:            base.roomID,
		InputWeightGrams:  base.req.InputWeightGrams,
		OutputWeightGrams: base.req.OutputWeightGrams,
		ExtractionMethod:  base.req.ExtractionMethod,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConversionResultResponse(result))
}

// ExtractionToFinishedGoods handles POST /conversions/extraction-to-finished-goods.
func (h *ConversionHandler) ExtractionToFinishedGoods(w http.ResponseWriter, r *http.Request) {
	base, ok := h.decodeConvertRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ConvertExtractionToFinishedGoods(r.Context(), conversion.ConvertExtractionToFinishedGoodsInput{
		SourceItemID:      base.sourceItemID,
		OutputTypeID:      base.outputTypeID,
		RoomID:            base.roomID,
		InputWeightGrams:  base.req.InputWeightGrams,
		OutputWeightGrams: base.req.OutputWeightGrams,
		UsableWeightGrams: base.req.UsableWeightGrams,
		UnitsProduced:     base.req.UnitsProduced,
		SKU:               base.req.SKU,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConversionResultResponse(result))
}

// GetConversion handles GET /conversions/{itemId}.
func (h *ConversionHandler) GetConversion(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.svc.GetConversion(r.Context(), itemID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toConversionRecordResponse(conv))
}

// ListConversions handles GET /conversions.
func (h *ConversionHandler) ListConversions(w http.ResponseWriter, r *http.Request) {
	input := conversion.ListConversionsInput{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	from, err := queryTime(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.From = from

	to, err := queryTime(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.To = to

	if v := r.URL.Query().Get("type"); v != "" {
		convType := domain.ConversionType(v)
		input.Type = &convType
	}
	if v := r.URL.Query().Get("strain"); v != "" {
		input.Strain = &v
	}

	roomID, err := queryUUID(r, "room_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.RoomID = roomID

	conversions, total, err := h.svc.ListConversions(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]conversionRecordResponse, 0, len(conversions))
	for _, conv := range conversions {
		out = append(out, toConversionRecordResponse(conv))
	}

	writeJSON(w, http.StatusOK, conversionListResponse{Conversions: out, Total: total})
}

type decodedConvertRequest struct {
	req          convertRequest
	sourceItemID uuid.UUID
	outputTypeID uuid.UUID
	roomID       uuid.UUID
}

// decodeConvertRequest parses the shared conversion body. Absent IDs stay
// uuid.Nil so the service input validation reports them field by field.
func (h *ConversionHandler) decodeConvertRequest(w http.ResponseWriter, r *http.Request) (decodedConvertRequest, bool) {
	var out decodedConvertRequest
	if err := decodeJSON(r, &out.req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return out, false
	}

	if out.req.SourceItemID != "" {
		id, err := uuid.Parse(out.req.SourceItemID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sourceItemId")
			return out, false
		}
		out.sourceItemID = id
	}
	if out.req.OutputTypeID != "" {
		id, err := uuid.Parse(out.req.OutputTypeID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid outputTypeId")
			return out, false
		}
		out.outputTypeID = id
	}
	if out.req.RoomID != "" {
		id, err := uuid.Parse(out.req.RoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid roomId")
			return out, false
		}
		out.roomID = id
	}

	return out, true
}

func toConversionResultResponse(result conversion.Result) conversionResultResponse {
	return conversionResultResponse{
		OutputItem:        toInventoryItemResponse(result.OutputItem),
		InputWeightGrams:  result.InputWeightGrams,
		OutputWeightGrams: result.OutputWeightGrams,
		MaterialLossGrams: result.MaterialLossGrams,
		LossPercentage:    result.LossPercentage,
	}
}

func toConversionRecordResponse(conv conversion.Conversion) conversionRecordResponse {
	return conversionRecordResponse{
		AuditID:   conv.AuditID,
		Item:      toInventoryItemResponse(conv.Item),
		Details:   conv.Details,
		CreatedAt: conv.CreatedAt,
	}
}
