// Package destruction implements the destruction record repository using
// PostgreSQL. Destruction rows are terminal and append-only.
package destruction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// Repo provides destruction record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new destruction repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const destructionColumns = `id, location_id, plant_id, inventory_item_id, reason,
	waste_weight_grams, created_at`

// Create inserts a new destruction record.
func (r *Repo) Create(ctx context.Context, d domain.Destruction) (domain.Destruction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}

	row := q.QueryRow(ctx,
		`INSERT INTO destructions (id, location_id, plant_id, inventory_item_id, reason,
			waste_weight_grams, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+destructionColumns,
		d.ID, d.LocationID, d.PlantID, d.InventoryItemID, d.Reason,
		d.WasteWeightGrams, time.Now().UTC(),
	)

	created, err := scanDestruction(row)
	if err != nil {
		return domain.Destruction{}, postgres.MapError(err, "destruction", d.ID)
	}
	return created, nil
}

// ListByLocation returns destruction records for a location, newest first.
func (r *Repo) ListByLocation(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]domain.Destruction, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+destructionColumns+` FROM destructions
		 WHERE location_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		locationID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list destructions: %w", err)
	}
	defer rows.Close()

	var records []domain.Destruction
	for rows.Next() {
		d, err := scanDestruction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan destruction: %w", err)
		}
		records = append(records, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate destructions: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDestruction(row rowScanner) (domain.Destruction, error) {
	var d domain.Destruction
	err := row.Scan(
		&d.ID, &d.LocationID, &d.PlantID, &d.InventoryItemID, &d.Reason,
		&d.WasteWeightGrams, &d.CreatedAt,
	)
	if err != nil {
		return domain.Destruction{}, err
	}
	return d, nil
}
