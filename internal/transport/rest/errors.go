package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// errorResponse is the JSON error body. Fields is populated for validation
// failures so clients can attach messages to individual inputs.
type errorResponse struct {
	Error  string          `json:"error"`
	Fields []fieldErrorDTO `json:"fields,omitempty"`
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondError maps a service error onto an HTTP status and JSON body.
// Unrecognized errors are logged and returned as opaque 500s.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		fields := make([]fieldErrorDTO, 0, len(vErr.Errors))
		for _, fe := range vErr.Errors {
			fields = append(fields, fieldErrorDTO{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error(), Fields: fields})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrInsufficientQuantity):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "insufficient quantity"})
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict"})
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
