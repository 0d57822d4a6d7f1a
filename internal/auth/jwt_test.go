package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "test-secret-that-is-at-least-32-chars!!"

func newTestManager(ttl time.Duration) *JWTManager {
	return NewJWTManager(testSecret, "seedtrace-test", ttl)
}

func testIdentity() Identity {
	return Identity{
		UserID:     uuid.New(),
		LocationID: uuid.New(),
		Role:       "operator",
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Minute)
	want := testIdentity()

	token, err := m.GenerateAccessToken(want)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	got, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}

	if got != want {
		t.Errorf("identity = %+v, want %+v", got, want)
	}
}

func TestJWT_Expired(t *testing.T) {
	t.Parallel()

	m := newTestManager(-time.Minute)

	token, err := m.GenerateAccessToken(testIdentity())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Minute)
	other := NewJWTManager("another-secret-that-is-32-chars-long!!!!", "seedtrace-test", time.Minute)

	token, err := m.GenerateAccessToken(testIdentity())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}
}

func TestJWT_WrongIssuer(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Minute)
	other := NewJWTManager(testSecret, "someone-else", time.Minute)

	token, err := m.GenerateAccessToken(testIdentity())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
}

func TestJWT_Tampered(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Minute)

	token, err := m.GenerateAccessToken(testIdentity())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts, want 3", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	if _, err := m.ValidateAccessToken(tampered); err == nil {
		t.Fatal("expected error for tampered token, got nil")
	}
}

func TestJWT_Empty(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Minute)
	if _, err := m.ValidateAccessToken(""); err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
}
