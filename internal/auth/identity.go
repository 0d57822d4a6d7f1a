package auth

import "github.com/google/uuid"

// Identity is the resolved caller of a request: the acting user, the
// licensed location the token is scoped to, and the user's role.
type Identity struct {
	UserID     uuid.UUID
	LocationID uuid.UUID
	Role       string
}
