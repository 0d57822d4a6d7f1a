// Package plant implements the plant repository using PostgreSQL.
// Soft deletion and offspring counters use conditional/atomic updates so
// state transitions hold under concurrent requests.
package plant

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// Repo provides plant persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new plant repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const plantColumns = `id, location_id, strain, room_id, phase, status, is_mother, notes,
	source_inventory_id, clone_count, seed_count, created_at, updated_at, deleted_at`

const createSQL = `
INSERT INTO plants (id, location_id, strain, room_id, phase, status, is_mother, notes,
	source_inventory_id, clone_count, seed_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10, $10)
RETURNING ` + plantColumns

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new plant and returns the persisted row.
func (r *Repo) Create(ctx context.Context, p domain.Plant) (domain.Plant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = domain.PlantActive
	}
	now := time.Now().UTC()

	row := q.QueryRow(ctx, createSQL,
		p.ID, p.LocationID, p.Strain, p.RoomID, p.Phase, p.Status,
		p.IsMother, p.Notes, p.SourceInventoryID, now,
	)

	created, err := scanPlant(row)
	if err != nil {
		return domain.Plant{}, postgres.MapError(err, "plant", p.ID)
	}
	return created, nil
}

// Update applies a partial update built from the non-nil patch fields and
// returns the updated plant.
func (r *Repo) Update(ctx context.Context, locationID, id uuid.UUID, patch domain.PlantPatch) (domain.Plant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("plants").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "location_id": locationID}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + plantColumns)

	if patch.Strain != nil {
		builder = builder.Set("strain", *patch.Strain)
	}
	if patch.RoomID != nil {
		builder = builder.Set("room_id", *patch.RoomID)
	}
	if patch.Phase != nil {
		builder = builder.Set("phase", *patch.Phase)
	}
	if patch.Notes != nil {
		builder = builder.Set("notes", *patch.Notes)
	}
	if patch.SourceInventoryID != nil {
		builder = builder.Set("source_inventory_id", *patch.SourceInventoryID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return domain.Plant{}, fmt.Errorf("build plant update: %w", err)
	}

	updated, err := scanPlant(q.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Plant{}, postgres.MapError(err, "plant", id)
	}
	return updated, nil
}

// SoftDelete marks a plant deleted. The WHERE clause requires the plant to
// be live, so a second call on the same id reports not-found rather than
// silently succeeding.
func (r *Repo) SoftDelete(ctx context.Context, locationID, id uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE plants SET deleted_at = $3, updated_at = $3
		 WHERE id = $2 AND location_id = $1 AND deleted_at IS NULL`,
		locationID, id, at,
	)
	if err != nil {
		return postgres.MapError(err, "plant", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateRoom moves a plant to a different room.
func (r *Repo) UpdateRoom(ctx context.Context, locationID, id, roomID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE plants SET room_id = $3, updated_at = now()
		 WHERE id = $2 AND location_id = $1 AND deleted_at IS NULL`,
		locationID, id, roomID,
	)
	if err != nil {
		return postgres.MapError(err, "plant", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetMother promotes an active plant to mother status. The status guard is
// part of the WHERE clause; zero affected rows means the plant is missing,
// deleted, or not in ACTIVE status.
func (r *Repo) SetMother(ctx context.Context, locationID, id uuid.UUID) (domain.Plant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE plants SET is_mother = true, status = $3, updated_at = now()
		 WHERE id = $2 AND location_id = $1 AND deleted_at IS NULL AND status = $4
		 RETURNING `+plantColumns,
		locationID, id, domain.PlantMother, domain.PlantActive,
	)

	updated, err := scanPlant(row)
	if err != nil {
		return domain.Plant{}, postgres.MapError(err, "plant", id)
	}
	return updated, nil
}

// IncrementOffspring atomically adds to the clone and seed counters.
func (r *Repo) IncrementOffspring(ctx context.Context, locationID, id uuid.UUID, clones, seeds int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE plants
		 SET clone_count = clone_count + $3, seed_count = seed_count + $4, updated_at = now()
		 WHERE id = $2 AND location_id = $1 AND deleted_at IS NULL AND is_mother`,
		locationID, id, clones, seeds,
	)
	if err != nil {
		return postgres.MapError(err, "plant", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MarkDestroyed terminates a plant's lifecycle.
func (r *Repo) MarkDestroyed(ctx context.Context, locationID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE plants SET status = $3, updated_at = now()
		 WHERE id = $2 AND location_id = $1 AND deleted_at IS NULL AND status <> $3`,
		locationID, id, domain.PlantDestroyed,
	)
	if err != nil {
		return postgres.MapError(err, "plant", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a live (not soft-deleted) plant scoped to a location.
func (r *Repo) GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.Plant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+plantColumns+` FROM plants
		 WHERE id = $1 AND location_id = $2 AND deleted_at IS NULL`,
		id, locationID,
	)

	p, err := scanPlant(row)
	if err != nil {
		return domain.Plant{}, postgres.MapError(err, "plant", id)
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (domain.Plant, error) {
	var p domain.Plant
	err := row.Scan(
		&p.ID, &p.LocationID, &p.Strain, &p.RoomID, &p.Phase, &p.Status,
		&p.IsMother, &p.Notes, &p.SourceInventoryID, &p.CloneCount, &p.SeedCount,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return domain.Plant{}, err
	}
	return p, nil
}
