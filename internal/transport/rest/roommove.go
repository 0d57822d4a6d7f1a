package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// roomMoveLister is the read side of the movement log.
type roomMoveLister interface {
	ListByPlant(ctx context.Context, locationID, plantID uuid.UUID, limit int) ([]domain.RoomMove, error)
}

// RoomMoveHandler serves movement log query endpoints.
type RoomMoveHandler struct {
	moves roomMoveLister
	log   *slog.Logger
}

// NewRoomMoveHandler creates a RoomMoveHandler.
func NewRoomMoveHandler(moves roomMoveLister, logger *slog.Logger) *RoomMoveHandler {
	return &RoomMoveHandler{moves: moves, log: logger.With("handler", "roommove")}
}

// ListByPlant returns a plant's room moves, newest first.
// GET /plants/{id}/moves?limit=50
func (h *RoomMoveHandler) ListByPlant(w http.ResponseWriter, r *http.Request) {
	locationID, ok := ctxutil.LocationIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plant id")
		return
	}

	limit := queryInt(r, "limit", 50)

	moves, err := h.moves.ListByPlant(r.Context(), locationID, plantID, limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := make([]roomMoveResponse, 0, len(moves))
	for _, m := range moves {
		resp = append(resp, roomMoveResponse{
			ID:              m.ID,
			PlantID:         m.PlantID,
			InventoryItemID: m.InventoryItemID,
			FromRoomID:      m.FromRoomID,
			ToRoomID:        m.ToRoomID,
			CreatedAt:       m.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
