// Package harvest implements the harvest and cure repositories using
// PostgreSQL. Harvest rows are the immutable wet-weight baseline; the only
// permitted mutation is the conditional decrement applied when harvested
// material is destroyed.
package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// Repo provides harvest and cure persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new harvest repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const harvestColumns = `id, location_id, plant_id, batch_id, wet_flower_weight_grams,
	wet_other_material_grams, wet_waste_weight_grams, created_at`

const cureColumns = `id, location_id, harvest_id, plant_id, dry_flower_weight_grams,
	dry_other_material_grams, dry_waste_weight_grams, created_at`

// ---------------------------------------------------------------------------
// Harvest operations
// ---------------------------------------------------------------------------

// CreateHarvest inserts a new harvest baseline.
func (r *Repo) CreateHarvest(ctx context.Context, h domain.Harvest) (domain.Harvest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}

	row := q.QueryRow(ctx,
		`INSERT INTO harvests (id, location_id, plant_id, batch_id, wet_flower_weight_grams,
			wet_other_material_grams, wet_waste_weight_grams, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+harvestColumns,
		h.ID, h.LocationID, h.PlantID, h.BatchID, h.WetFlowerWeightGrams,
		h.WetOtherMaterialGrams, h.WetWasteWeightGrams, time.Now().UTC(),
	)

	created, err := scanHarvest(row)
	if err != nil {
		return domain.Harvest{}, postgres.MapError(err, "harvest", h.ID)
	}
	return created, nil
}

// GetHarvestByID returns a harvest scoped to a location.
func (r *Repo) GetHarvestByID(ctx context.Context, locationID, id uuid.UUID) (domain.Harvest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+harvestColumns+` FROM harvests WHERE id = $1 AND location_id = $2`,
		id, locationID,
	)

	h, err := scanHarvest(row)
	if err != nil {
		return domain.Harvest{}, postgres.MapError(err, "harvest", id)
	}
	return h, nil
}

// GetLatestByPlant returns the most recent harvest for a plant.
func (r *Repo) GetLatestByPlant(ctx context.Context, locationID, plantID uuid.UUID) (domain.Harvest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+harvestColumns+` FROM harvests
		 WHERE plant_id = $1 AND location_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		plantID, locationID,
	)

	h, err := scanHarvest(row)
	if err != nil {
		return domain.Harvest{}, postgres.MapError(err, "harvest", plantID)
	}
	return h, nil
}

// DecrementWetFlower conditionally subtracts destroyed material from the wet
// flower baseline. Zero affected rows means the decrement would have gone
// negative, reported as domain.ErrInsufficientQuantity.
func (r *Repo) DecrementWetFlower(ctx context.Context, locationID, id uuid.UUID, grams float64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE harvests
		 SET wet_flower_weight_grams = wet_flower_weight_grams - $3
		 WHERE id = $2 AND location_id = $1 AND wet_flower_weight_grams >= $3`,
		locationID, id, grams,
	)
	if err != nil {
		return postgres.MapError(err, "harvest", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("harvest %s: %w", id, domain.ErrInsufficientQuantity)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cure operations
// ---------------------------------------------------------------------------

// CreateCure inserts the dry-weight record for a harvest.
func (r *Repo) CreateCure(ctx context.Context, c domain.Cure) (domain.Cure, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	row := q.QueryRow(ctx,
		`INSERT INTO cures (id, location_id, harvest_id, plant_id, dry_flower_weight_grams,
			dry_other_material_grams, dry_waste_weight_grams, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+cureColumns,
		c.ID, c.LocationID, c.HarvestID, c.PlantID, c.DryFlowerWeightGrams,
		c.DryOtherMaterialGrams, c.DryWasteWeightGrams, time.Now().UTC(),
	)

	created, err := scanCure(row)
	if err != nil {
		return domain.Cure{}, postgres.MapError(err, "cure", c.ID)
	}
	return created, nil
}

// GetCureByHarvest returns the cure recorded for a harvest, if any.
func (r *Repo) GetCureByHarvest(ctx context.Context, locationID, harvestID uuid.UUID) (domain.Cure, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+cureColumns+` FROM cures WHERE harvest_id = $1 AND location_id = $2`,
		harvestID, locationID,
	)

	c, err := scanCure(row)
	if err != nil {
		return domain.Cure{}, postgres.MapError(err, "cure", harvestID)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHarvest(row rowScanner) (domain.Harvest, error) {
	var h domain.Harvest
	err := row.Scan(
		&h.ID, &h.LocationID, &h.PlantID, &h.BatchID, &h.WetFlowerWeightGrams,
		&h.WetOtherMaterialGrams, &h.WetWasteWeightGrams, &h.CreatedAt,
	)
	if err != nil {
		return domain.Harvest{}, err
	}
	return h, nil
}

func scanCure(row rowScanner) (domain.Cure, error) {
	var c domain.Cure
	err := row.Scan(
		&c.ID, &c.LocationID, &c.HarvestID, &c.PlantID, &c.DryFlowerWeightGrams,
		&c.DryOtherMaterialGrams, &c.DryWasteWeightGrams, &c.CreatedAt,
	)
	if err != nil {
		return domain.Cure{}, err
	}
	return c, nil
}
