// Package inventorytype implements the inventory type reference-data
// repository using PostgreSQL.
package inventorytype

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// Repo provides inventory type lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new inventory type repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const typeColumns = `id, name, category, unit, is_source, is_waste, can_convert, active, created_at`

// GetByID returns an inventory type by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.InventoryType, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+typeColumns+` FROM inventory_types WHERE id = $1`, id)

	typ, err := scanType(row)
	if err != nil {
		return domain.InventoryType{}, postgres.MapError(err, "inventory_type", id)
	}
	return typ, nil
}

// GetByName returns an active inventory type by its unique name. The curing
// step and offspring generation depend on fixed well-known names.
func (r *Repo) GetByName(ctx context.Context, name string) (domain.InventoryType, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+typeColumns+` FROM inventory_types WHERE name = $1 AND active`,
		name,
	)

	typ, err := scanType(row)
	if err != nil {
		return domain.InventoryType{}, postgres.MapError(err, "inventory_type", uuid.Nil)
	}
	return typ, nil
}

// ListActive returns all active inventory types ordered by name.
func (r *Repo) ListActive(ctx context.Context) ([]domain.InventoryType, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+typeColumns+` FROM inventory_types WHERE active ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory_types: %w", err)
	}
	defer rows.Close()

	var types []domain.InventoryType
	for rows.Next() {
		typ, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory_type: %w", err)
		}
		types = append(types, typ)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory_types: %w", err)
	}
	return types, nil
}

// Deactivate soft-disables a type so it is no longer offered for new
// inventory. Existing items keep their reference.
func (r *Repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `UPDATE inventory_types SET active = false WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "inventory_type", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory_type %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanType(row rowScanner) (domain.InventoryType, error) {
	var typ domain.InventoryType
	err := row.Scan(
		&typ.ID, &typ.Name, &typ.Category, &typ.Unit, &typ.IsSource,
		&typ.IsWaste, &typ.CanConvert, &typ.Active, &typ.CreatedAt,
	)
	if err != nil {
		return domain.InventoryType{}, err
	}
	return typ, nil
}
