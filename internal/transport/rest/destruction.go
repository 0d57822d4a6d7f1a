package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/internal/transport/middleware"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// destructionLister is the read side of the destruction log.
type destructionLister interface {
	ListByLocation(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]domain.Destruction, error)
}

// DestructionHandler serves the destruction report endpoint.
type DestructionHandler struct {
	destructions destructionLister
	log          *slog.Logger
}

// NewDestructionHandler creates a DestructionHandler.
func NewDestructionHandler(destructions destructionLister, logger *slog.Logger) *DestructionHandler {
	return &DestructionHandler{destructions: destructions, log: logger.With("handler", "destruction")}
}

type destructionListResponse struct {
	Destructions []destructionResponse `json:"destructions"`
}

// List returns the location's destruction records, newest first. Admin only,
// since the full report is a compliance artifact rather than day-to-day data.
// GET /destructions?limit=50&offset=0
func (h *DestructionHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	locationID, ok := ctxutil.LocationIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	destructions, err := h.destructions.ListByLocation(r.Context(), locationID, limit, offset)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := destructionListResponse{Destructions: make([]destructionResponse, 0, len(destructions))}
	for _, d := range destructions {
		resp.Destructions = append(resp.Destructions, destructionResponse{
			ID:               d.ID,
			PlantID:          d.PlantID,
			InventoryItemID:  d.InventoryItemID,
			Reason:           d.Reason,
			WasteWeightGrams: d.WasteWeightGrams,
			CreatedAt:        d.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
