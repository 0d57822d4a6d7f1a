package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/verdantlabs/seedtrace-backend/internal/auth"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

//go:generate moq -out token_validator_mock_test.go -pkg middleware . tokenValidator

func TestAuth_ValidToken(t *testing.T) {
	identity := auth.Identity{
		UserID:     uuid.New(),
		LocationID: uuid.New(),
		Role:       domain.RoleOperator,
	}
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			if token == "valid-token" {
				return identity, nil
			}
			return auth.Identity{}, errors.New("invalid token")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, ok := ctxutil.UserIDFromCtx(r.Context())
		if !ok {
			t.Error("expected userID in context")
			return
		}
		if gotUserID != identity.UserID {
			t.Errorf("expected userID %v, got %v", identity.UserID, gotUserID)
		}
		gotLocationID, ok := ctxutil.LocationIDFromCtx(r.Context())
		if !ok {
			t.Error("expected locationID in context")
			return
		}
		if gotLocationID != identity.LocationID {
			t.Errorf("expected locationID %v, got %v", identity.LocationID, gotLocationID)
		}
		if role := ctxutil.RoleFromCtx(r.Context()); role != domain.RoleOperator {
			t.Errorf("expected role %q, got %q", domain.RoleOperator, role)
		}
		w.WriteHeader(http.StatusOK)
	})

	middleware := Auth(validator)
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			return auth.Identity{}, errors.New("invalid token")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for invalid token")
	})

	middleware := Auth(validator)
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuth_NoAuthHeader(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			t.Error("ValidateAccessToken should not be called when no header present")
			return auth.Identity{}, errors.New("should not be called")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ctxutil.UserIDFromCtx(r.Context())
		if ok {
			t.Error("expected no userID in context for anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	})

	middleware := Auth(validator)
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if len(validator.ValidateAccessTokenCalls()) > 0 {
		t.Error("ValidateAccessToken should not be called for anonymous request")
	}
}

func TestAuth_NonBearerToken(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			t.Error("ValidateAccessToken should not be called for non-Bearer token")
			return auth.Identity{}, errors.New("should not be called")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ctxutil.UserIDFromCtx(r.Context())
		if ok {
			t.Error("expected no userID in context for non-Bearer auth")
		}
		w.WriteHeader(http.StatusOK)
	})

	middleware := Auth(validator)
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if len(validator.ValidateAccessTokenCalls()) > 0 {
		t.Error("ValidateAccessToken should not be called for non-Bearer token")
	}
}

func TestAuth_EmptyBearerToken(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (auth.Identity, error) {
			t.Error("ValidateAccessToken should not be called for empty Bearer token")
			return auth.Identity{}, errors.New("should not be called")
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ctxutil.UserIDFromCtx(r.Context())
		if ok {
			t.Error("expected no userID in context for empty Bearer token")
		}
		w.WriteHeader(http.StatusOK)
	})

	middleware := Auth(validator)
	wrappedHandler := middleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if len(validator.ValidateAccessTokenCalls()) > 0 {
		t.Error("ValidateAccessToken should not be called for empty Bearer token")
	}
}

func TestExtractBearerToken_Cases(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer with token", "Bearer valid-token", "valid-token"},
		{"bearer lowercase", "bearer valid-token", "valid-token"},
		{"bearer mixed case", "BEARER valid-token", "valid-token"},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
		{"bearer no space", "Bearertoken", ""},
		{"bearer empty token", "Bearer ", ""},
		{"just bearer", "Bearer", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got := extractBearerToken(req)
			if got != tc.want {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		ctx := ctxutil.WithRole(t.Context(), domain.RoleAdmin)
		if err := RequireAdmin(ctx); err != nil {
			t.Errorf("expected nil error for admin, got %v", err)
		}
	})

	t.Run("operator forbidden", func(t *testing.T) {
		ctx := ctxutil.WithRole(t.Context(), domain.RoleOperator)
		if !errors.Is(RequireAdmin(ctx), domain.ErrForbidden) {
			t.Error("expected ErrForbidden for operator")
		}
	})

	t.Run("missing role forbidden", func(t *testing.T) {
		if !errors.Is(RequireAdmin(t.Context()), domain.ErrForbidden) {
			t.Error("expected ErrForbidden when role absent")
		}
	})
}
