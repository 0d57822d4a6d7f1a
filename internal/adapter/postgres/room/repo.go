// Package room implements the room repository using PostgreSQL. Rooms are
// referenced, not mutated, by the lifecycle and conversion services.
package room

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// Repo provides room lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new room repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const roomColumns = `id, location_id, name, status, created_at, deleted_at`

// GetByID returns a room scoped to a location. Soft-deleted rooms are not
// visible.
func (r *Repo) GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.Room, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms
		 WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`,
		id, locationID,
	)

	var rm domain.Room
	err := row.Scan(&rm.ID, &rm.LocationID, &rm.Name, &rm.Status, &rm.CreatedAt, &rm.DeletedAt)
	if err != nil {
		return domain.Room{}, postgres.MapError(err, "room", id)
	}
	return rm, nil
}
