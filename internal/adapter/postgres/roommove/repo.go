// Package roommove implements the append-only movement log repository
// using PostgreSQL.
package roommove

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// Repo provides room move persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new room move repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const moveColumns = `id, location_id, plant_id, inventory_item_id, from_room_id, to_room_id, created_at`

// Create appends a movement log entry.
func (r *Repo) Create(ctx context.Context, m domain.RoomMove) (domain.RoomMove, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	row := q.QueryRow(ctx,
		`INSERT INTO room_moves (id, location_id, plant_id, inventory_item_id, from_room_id, to_room_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+moveColumns,
		m.ID, m.LocationID, m.PlantID, m.InventoryItemID, m.FromRoomID, m.ToRoomID, time.Now().UTC(),
	)

	created, err := scanMove(row)
	if err != nil {
		return domain.RoomMove{}, postgres.MapError(err, "room_move", m.ID)
	}
	return created, nil
}

// ListByPlant returns the movement history for a plant, newest first.
func (r *Repo) ListByPlant(ctx context.Context, locationID, plantID uuid.UUID, limit int) ([]domain.RoomMove, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+moveColumns+` FROM room_moves
		 WHERE location_id = $1 AND plant_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		locationID, plantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list room_moves: %w", err)
	}
	defer rows.Close()

	var moves []domain.RoomMove
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room_move: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room_moves: %w", err)
	}
	return moves, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMove(row rowScanner) (domain.RoomMove, error) {
	var m domain.RoomMove
	err := row.Scan(
		&m.ID, &m.LocationID, &m.PlantID, &m.InventoryItemID,
		&m.FromRoomID, &m.ToRoomID, &m.CreatedAt,
	)
	if err != nil {
		return domain.RoomMove{}, err
	}
	return m, nil
}
