package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	got := MapError(nil, "plant", uuid.New())
	if got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_NoRows(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got := MapError(pgx.ErrNoRows, "plant", id)

	if got == nil {
		t.Fatal("MapError(ErrNoRows) = nil, want error")
	}
	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("MapError(ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
	if want := fmt.Sprintf("plant %s: not found", id); got.Error() != want {
		t.Errorf("MapError(ErrNoRows).Error() = %q, want %q", got.Error(), want)
	}
}

func TestMapError_WrappedNoRows(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	wrapped := fmt.Errorf("scan row: %w", pgx.ErrNoRows)
	got := MapError(wrapped, "inventory_item", id)

	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("MapError(wrapped ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
}

func TestMapError_PgCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want error
	}{
		{"unique violation", "23505", domain.ErrAlreadyExists},
		{"foreign key violation", "23503", domain.ErrNotFound},
		{"check violation", "23514", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pgErr := &pgconn.PgError{Code: tt.code}
			got := MapError(pgErr, "inventory_item", uuid.New())

			if !errors.Is(got, tt.want) {
				t.Errorf("MapError(code %s) does not wrap %v: %v", tt.code, tt.want, got)
			}
		})
	}
}

func TestMapError_ContextPassThrough(t *testing.T) {
	t.Parallel()

	got := MapError(context.DeadlineExceeded, "plant", uuid.New())
	if !errors.Is(got, context.DeadlineExceeded) {
		t.Errorf("MapError(DeadlineExceeded) does not keep context error: %v", got)
	}
	if errors.Is(got, domain.ErrNotFound) {
		t.Errorf("MapError(DeadlineExceeded) wrongly mapped to ErrNotFound")
	}
}

func TestMapError_UnknownErrorWrapped(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	got := MapError(cause, "harvest", uuid.New())

	if !errors.Is(got, cause) {
		t.Errorf("MapError(unknown) does not wrap cause: %v", got)
	}
}
