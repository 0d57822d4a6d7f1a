package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a licensed site. All entities are scoped by LocationID;
// cross-location references are rejected.
type Location struct {
	ID        uuid.UUID
	Name      string
	UBI       string // Unified Business Identifier, the tenant's license code
	CreatedAt time.Time
}

// Room is a named space within a location. Referenced, not mutated, by the
// lifecycle and conversion services.
type Room struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Name       string
	Status     RoomStatus
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

// Usable reports whether the room can receive plants or inventory.
func (r Room) Usable() bool {
	return r.Status == RoomActive && r.DeletedAt == nil
}

// User is the minimal actor record needed for auth and audit attribution.
type User struct {
	ID        uuid.UUID
	Email     string
	Role      string
	CreatedAt time.Time
}

// Roles understood by the access layer.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)
