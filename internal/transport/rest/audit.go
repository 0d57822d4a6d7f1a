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

// auditReader is the read side of the audit log.
type auditReader interface {
	GetByEntity(ctx context.Context, locationID uuid.UUID, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error)
	List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error)
}

// AuditHandler serves audit trail query endpoints.
type AuditHandler struct {
	audit auditReader
	log   *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(audit auditReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, log: logger.With("handler", "audit")}
}

var knownEntityTypes = map[domain.EntityType]bool{
	domain.EntityTypePlant:       true,
	domain.EntityTypeInventory:   true,
	domain.EntityTypeHarvest:     true,
	domain.EntityTypeCure:        true,
	domain.EntityTypeDestruction: true,
	domain.EntityTypeRoomMove:    true,
}

// EntityHistory returns the audit trail of one entity, newest first.
// GET /audit/{entityType}/{entityId}?limit=50
func (h *AuditHandler) EntityHistory(w http.ResponseWriter, r *http.Request) {
	locationID, ok := ctxutil.LocationIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entityType := domain.EntityType(r.PathValue("entityType"))
	if !knownEntityTypes[entityType] {
		writeError(w, http.StatusBadRequest, "unknown entity type")
		return
	}

	entityID, err := pathUUID(r, "entityId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := queryInt(r, "limit", 50)

	records, err := h.audit.GetByEntity(r.Context(), locationID, entityType, entityID, limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditRecordResponses(records))
}

type auditListResponse struct {
	Records []auditRecordResponse `json:"records"`
	Total   int                   `json:"total"`
}

// List returns location-wide audit records with filters. Admin only, since
// the unfiltered trail exposes every operator's activity.
// GET /audit?user_id=&action=&entity_type=&from=&to=&limit=&offset=
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	locationID, ok := ctxutil.LocationIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := domain.AuditFilter{
		LocationID: locationID,
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
	}

	userID, err := queryUUID(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.UserID = userID

	if v := r.URL.Query().Get("action"); v != "" {
		action := domain.AuditAction(v)
		filter.Action = &action
	}
	if v := r.URL.Query().Get("entity_type"); v != "" {
		entityType := domain.EntityType(v)
		if !knownEntityTypes[entityType] {
			writeError(w, http.StatusBadRequest, "unknown entity type")
			return
		}
		filter.EntityType = &entityType
	}

	from, err := queryTime(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.From = from

	to, err := queryTime(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.To = to

	records, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, auditListResponse{
		Records: toAuditRecordResponses(records),
		Total:   total,
	})
}
