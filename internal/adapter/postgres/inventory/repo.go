// Package inventory implements the inventory item repository using
// PostgreSQL. Quantity and weight decrements are conditional updates: the
// WHERE clause carries the sufficiency check and the affected-row count
// decides success, so concurrent consumers can never drive stock negative.
package inventory

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

// Repo provides inventory item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new inventory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const itemColumns = `id, location_id, inventory_type_id, room_id, strain_id, strain,
	batch_number, barcode, weight_grams, usable_weight_grams, quantity, status,
	created_at, updated_at`

const createSQL = `
INSERT INTO inventory_items (id, location_id, inventory_type_id, room_id, strain_id,
	strain, batch_number, barcode, weight_grams, usable_weight_grams, quantity,
	status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
RETURNING ` + itemColumns

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new inventory item. A duplicate barcode surfaces as
// domain.ErrAlreadyExists; callers retry with a fresh barcode.
func (r *Repo) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = domain.InventoryActive
	}
	now := time.Now().UTC()

	row := q.QueryRow(ctx, createSQL,
		item.ID, item.LocationID, item.InventoryTypeID, item.RoomID, item.StrainID,
		item.Strain, item.BatchNumber, item.Barcode, item.WeightGrams,
		item.UsableWeightGrams, item.Quantity, item.Status, now,
	)

	created, err := scanItem(row)
	if err != nil {
		return domain.InventoryItem{}, postgres.MapError(err, "inventory_item", item.ID)
	}
	return created, nil
}

// DecrementWeight atomically subtracts grams from an active item's weight.
// Implemented as a single conditional update; zero affected rows means the
// item is missing, inactive, or has insufficient weight — reported as
// domain.ErrInsufficientQuantity so callers can distinguish a lost race
// from a plain not-found.
func (r *Repo) DecrementWeight(ctx context.Context, locationID, id uuid.UUID, grams float64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE inventory_items
		 SET weight_grams = weight_grams - $3, updated_at = now()
		 WHERE id = $2 AND location_id = $1 AND status = $4 AND weight_grams >= $3`,
		locationID, id, grams, domain.InventoryActive,
	)
	if err != nil {
		return postgres.MapError(err, "inventory_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory_item %s: %w", id, domain.ErrInsufficientQuantity)
	}
	return nil
}

// DecrementQuantity atomically subtracts units from an active item's
// quantity, with the same conditional-update contract as DecrementWeight.
func (r *Repo) DecrementQuantity(ctx context.Context, locationID, id uuid.UUID, amount int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE inventory_items
		 SET quantity = quantity - $3, updated_at = now()
		 WHERE id = $2 AND location_id = $1 AND status = $4 AND quantity >= $3`,
		locationID, id, amount, domain.InventoryActive,
	)
	if err != nil {
		return postgres.MapError(err, "inventory_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory_item %s: %w", id, domain.ErrInsufficientQuantity)
	}
	return nil
}

// UpdateRoom moves an item to a different room.
func (r *Repo) UpdateRoom(ctx context.Context, locationID, id uuid.UUID, roomID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE inventory_items SET room_id = $3, updated_at = now()
		 WHERE id = $2 AND location_id = $1`,
		locationID, id, roomID,
	)
	if err != nil {
		return postgres.MapError(err, "inventory_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory_item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetStatus transitions an item's lifecycle status.
func (r *Repo) SetStatus(ctx context.Context, locationID, id uuid.UUID, status domain.InventoryStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE inventory_items SET status = $3, updated_at = now()
		 WHERE id = $2 AND location_id = $1`,
		locationID, id, status,
	)
	if err != nil {
		return postgres.MapError(err, "inventory_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory_item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an item by primary key scoped to a location.
func (r *Repo) GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 AND location_id = $2`,
		id, locationID,
	)

	item, err := scanItem(row)
	if err != nil {
		return domain.InventoryItem{}, postgres.MapError(err, "inventory_item", id)
	}
	return item, nil
}

const getWithTypeSQL = `
SELECT i.id, i.location_id, i.inventory_type_id, i.room_id, i.strain_id, i.strain,
       i.batch_number, i.barcode, i.weight_grams, i.usable_weight_grams, i.quantity,
       i.status, i.created_at, i.updated_at,
       t.id, t.name, t.category, t.unit, t.is_source, t.is_waste, t.can_convert,
       t.active, t.created_at
FROM inventory_items i
JOIN inventory_types t ON i.inventory_type_id = t.id
WHERE i.id = $1 AND i.location_id = $2`

// GetByIDWithType returns an item joined with its inventory type.
func (r *Repo) GetByIDWithType(ctx context.Context, locationID, id uuid.UUID) (domain.InventoryItem, domain.InventoryType, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		item domain.InventoryItem
		typ  domain.InventoryType
	)
	err := q.QueryRow(ctx, getWithTypeSQL, id, locationID).Scan(
		&item.ID, &item.LocationID, &item.InventoryTypeID, &item.RoomID,
		&item.StrainID, &item.Strain, &item.BatchNumber, &item.Barcode,
		&item.WeightGrams, &item.UsableWeightGrams, &item.Quantity, &item.Status,
		&item.CreatedAt, &item.UpdatedAt,
		&typ.ID, &typ.Name, &typ.Category, &typ.Unit, &typ.IsSource, &typ.IsWaste,
		&typ.CanConvert, &typ.Active, &typ.CreatedAt,
	)
	if err != nil {
		return domain.InventoryItem{}, domain.InventoryType{}, postgres.MapError(err, "inventory_item", id)
	}
	return item, typ, nil
}

// List returns items matching the filter plus the total match count.
func (r *Repo) List(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From("inventory_items i").
		Where(sq.Eq{"i.location_id": f.LocationID})

	if len(f.IDs) > 0 {
		base = base.Where(sq.Eq{"i.id": f.IDs})
	}
	if f.Status != nil {
		base = base.Where(sq.Eq{"i.status": *f.Status})
	}
	if f.RoomID != nil {
		base = base.Where(sq.Eq{"i.room_id": *f.RoomID})
	}
	if f.Strain != nil {
		base = base.Where(sq.Eq{"i.strain": *f.Strain})
	}
	if f.Category != nil {
		base = base.Where("i.inventory_type_id IN (SELECT id FROM inventory_types WHERE category = ?)", *f.Category)
	}

	countSQL, countArgs, err := base.Column("count(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build inventory count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory_items: %w", err)
	}

	listBuilder := base.
		Column(`i.id, i.location_id, i.inventory_type_id, i.room_id, i.strain_id, i.strain,
			i.batch_number, i.barcode, i.weight_grams, i.usable_weight_grams, i.quantity,
			i.status, i.created_at, i.updated_at`).
		OrderBy("i.created_at DESC")
	if f.Limit > 0 {
		listBuilder = listBuilder.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build inventory list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory_items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inventory_item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate inventory_items: %w", err)
	}

	return items, total, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(
		&item.ID, &item.LocationID, &item.InventoryTypeID, &item.RoomID,
		&item.StrainID, &item.Strain, &item.BatchNumber, &item.Barcode,
		&item.WeightGrams, &item.UsableWeightGrams, &item.Quantity, &item.Status,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return item, nil
}
