package middleware

import (
	"net/http"
	"strings"

	"github.com/verdantlabs/seedtrace-backend/internal/auth"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// Auth resolves the bearer token into an identity and stores the user,
// location and role in the request context. Requests without a token pass
// through anonymously; services reject them when they require a caller.
func Auth(validator tokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			identity, err := validator.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), identity.UserID)
			ctx = ctxutil.WithLocationID(ctx, identity.LocationID)
			ctx = ctxutil.WithRole(ctx, identity.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}
