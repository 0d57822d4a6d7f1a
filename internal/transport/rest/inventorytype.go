package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/internal/transport/middleware"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// inventoryTypeRepo is the catalog of inventory types.
type inventoryTypeRepo interface {
	ListActive(ctx context.Context) ([]domain.InventoryType, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// InventoryTypeHandler serves the inventory type catalog. Clients resolve
// type IDs here before creating harvests, cures, and conversions.
type InventoryTypeHandler struct {
	types inventoryTypeRepo
	log   *slog.Logger
}

// NewInventoryTypeHandler creates an InventoryTypeHandler.
func NewInventoryTypeHandler(types inventoryTypeRepo, logger *slog.Logger) *InventoryTypeHandler {
	return &InventoryTypeHandler{types: types, log: logger.With("handler", "inventorytype")}
}

type inventoryTypeResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Unit       string    `json:"unit"`
	IsSource   bool      `json:"isSource"`
	IsWaste    bool      `json:"isWaste"`
	CanConvert bool      `json:"canConvert"`
	CreatedAt  time.Time `json:"createdAt"`
}

// List returns all active inventory types.
// GET /inventory-types
func (h *InventoryTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.LocationIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	types, err := h.types.ListActive(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := make([]inventoryTypeResponse, 0, len(types))
	for _, typ := range types {
		resp = append(resp, inventoryTypeResponse{
			ID:         typ.ID,
			Name:       typ.Name,
			Category:   string(typ.Category),
			Unit:       typ.Unit,
			IsSource:   typ.IsSource,
			IsWaste:    typ.IsWaste,
			CanConvert: typ.CanConvert,
			CreatedAt:  typ.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Deactivate retires an inventory type from the catalog. Admin only.
// Existing items keep their type; the type just stops being offered.
// DELETE /inventory-types/{id}
func (h *InventoryTypeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid type id")
		return
	}

	if err := h.types.Deactivate(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
