package testhelper

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// uniqueBarcode returns a random 16-digit numeric barcode.
func uniqueBarcode() string {
	return fmt.Sprintf("%016d", rand.Int63n(1e16))
}

// SeedLocation creates a location with a unique UBI. Returns a filled domain.Location.
func SeedLocation(t *testing.T, pool *pgxpool.Pool) domain.Location {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	loc := domain.Location{
		ID:        uuid.New(),
		Name:      "Test Farm " + suffix,
		UBI:       "UBI-" + suffix,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO locations (id, name, ubi, created_at) VALUES ($1, $2, $3, $4)`,
		loc.ID, loc.Name, loc.UBI, loc.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLocation insert: %v", err)
	}

	return loc
}

// SeedUser creates a user with the operator role. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		Role:      domain.RoleOperator,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, role, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.Role, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedRoom creates an active room in the given location. Returns a filled domain.Room.
func SeedRoom(t *testing.T, pool *pgxpool.Pool, locationID uuid.UUID) domain.Room {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	room := domain.Room{
		ID:         uuid.New(),
		LocationID: locationID,
		Name:       "Room " + suffix,
		Status:     domain.RoomActive,
		CreatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO rooms (id, location_id, name, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		room.ID, room.LocationID, room.Name, string(room.Status), room.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRoom insert: %v", err)
	}

	return room
}

// GetInventoryType loads a migration-seeded inventory type by name.
func GetInventoryType(t *testing.T, pool *pgxpool.Pool, name string) domain.InventoryType {
	t.Helper()
	ctx := context.Background()

	var it domain.InventoryType
	var category string
	err := pool.QueryRow(ctx,
		`SELECT id, name, category, unit, is_source, is_waste, can_convert, active, created_at
		 FROM inventory_types WHERE name = $1`,
		name,
	).Scan(&it.ID, &it.Name, &category, &it.Unit, &it.IsSource, &it.IsWaste, &it.CanConvert, &it.Active, &it.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: GetInventoryType %q: %v", name, err)
	}
	it.Category = domain.InventoryCategory(category)

	return it
}

// SeedInventoryItem creates an active inventory item of the given type with the
// given gross weight. roomID may be nil. Returns a filled domain.InventoryItem.
func SeedInventoryItem(t *testing.T, pool *pgxpool.Pool, locationID, typeID uuid.UUID, roomID *uuid.UUID, weightGrams float64) domain.InventoryItem {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	item := domain.InventoryItem{
		ID:              uuid.New(),
		LocationID:      locationID,
		InventoryTypeID: typeID,
		RoomID:          roomID,
		Strain:          "Strain " + suffix,
		BatchNumber:     "BATCH-" + suffix,
		Barcode:         uniqueBarcode(),
		WeightGrams:     weightGrams,
		Status:          domain.InventoryActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO inventory_items (id, location_id, inventory_type_id, room_id, strain, batch_number, barcode, weight_grams, usable_weight_grams, quantity, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID, item.LocationID, item.InventoryTypeID, item.RoomID, item.Strain, item.BatchNumber,
		item.Barcode, item.WeightGrams, item.UsableWeightGrams, item.Quantity, string(item.Status),
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedInventoryItem insert: %v", err)
	}

	return item
}

// SeedPlant creates an active vegetative plant in the given room.
// Returns a filled domain.Plant.
func SeedPlant(t *testing.T, pool *pgxpool.Pool, locationID, roomID uuid.UUID) domain.Plant {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	plant := domain.Plant{
		ID:         uuid.New(),
		LocationID: locationID,
		Strain:     "Strain " + suffix,
		RoomID:     roomID,
		Phase:      domain.PhaseVegetative,
		Status:     domain.PlantActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO plants (id, location_id, strain, room_id, phase, status, is_mother, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		plant.ID, plant.LocationID, plant.Strain, plant.RoomID, string(plant.Phase), string(plant.Status),
		plant.IsMother, plant.Notes, plant.CreatedAt, plant.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPlant insert: %v", err)
	}

	return plant
}

// SeedHarvest creates a harvest record for the plant with the given wet weights.
// Returns a filled domain.Harvest.
func SeedHarvest(t *testing.T, pool *pgxpool.Pool, locationID, plantID uuid.UUID, wetFlower, wetOther, wetWaste float64) domain.Harvest {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	h := domain.Harvest{
		ID:                    uuid.New(),
		LocationID:            locationID,
		PlantID:               plantID,
		BatchID:               "HB-" + uniqueSuffix(),
		WetFlowerWeightGrams:  wetFlower,
		WetOtherMaterialGrams: wetOther,
		WetWasteWeightGrams:   wetWaste,
		CreatedAt:             now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO harvests (id, location_id, plant_id, batch_id, wet_flower_weight_grams, wet_other_material_grams, wet_waste_weight_grams, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.LocationID, h.PlantID, h.BatchID, h.WetFlowerWeightGrams, h.WetOtherMaterialGrams, h.WetWasteWeightGrams, h.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedHarvest insert: %v", err)
	}

	return h
}
