package middleware

import (
	"context"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden if the context caller is not an
// admin. Use inside handlers, not as HTTP middleware.
func RequireAdmin(ctx context.Context) error {
	if ctxutil.RoleFromCtx(ctx) != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
