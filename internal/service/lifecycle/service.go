// Package lifecycle implements the cultivation lifecycle business logic:
// plant creation and consumption, room moves, mother-plant conversion,
// clone/seed generation, harvest and cure, destruction, and reversible undo
// of selected prior actions.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type plantRepo interface {
	Create(ctx context.Context, p domain.Plant) (domain.Plant, error)
	Update(ctx context.Context, locationID, id uuid.UUID, patch domain.PlantPatch) (domain.Plant, error)
	SoftDelete(ctx context.Context, locationID, id uuid.UUID, at time.Time) error
	UpdateRoom(ctx context.Context, locationID, id, roomID uuid.UUID) error
	SetMother(ctx context.Context, locationID, id uuid.UUID) (domain.Plant, error)
	IncrementOffspring(ctx context.Context, locationID, id uuid.UUID, clones, seeds int) error
	MarkDestroyed(ctx context.Context, locationID, id uuid.UUID) error
	GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.Plant, error)
}

type inventoryRepo interface {
	Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	DecrementWeight(ctx context.Context, locationID, id uuid.UUID, grams float64) error
	DecrementQuantity(ctx context.Context, locationID, id uuid.UUID, amount int) error
	UpdateRoom(ctx context.Context, locationID, id uuid.UUID, roomID uuid.UUID) error
	GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.InventoryItem, error)
}

type typeRepo interface {
	GetByName(ctx context.Context, name string) (domain.InventoryType, error)
}

type harvestRepo interface {
	CreateHarvest(ctx context.Context, h domain.Harvest) (domain.Harvest, error)
	GetHarvestByID(ctx context.Context, locationID, id uuid.UUID) (domain.Harvest, error)
	GetLatestByPlant(ctx context.Context, locationID, plantID uuid.UUID) (domain.Harvest, error)
	DecrementWetFlower(ctx context.Context, locationID, id uuid.UUID, grams float64) error
	CreateCure(ctx context.Context, c domain.Cure) (domain.Cure, error)
}

type destructionRepo interface {
	Create(ctx context.Context, d domain.Destruction) (domain.Destruction, error)
}

type roomMoveRepo interface {
	Create(ctx context.Context, m domain.RoomMove) (domain.RoomMove, error)
}

type roomRepo interface {
	GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.Room, error)
}

type auditRepo interface {
	Log(ctx context.Context, record domain.AuditRecord) error
	GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.AuditRecord, error)
	GetByEntity(ctx context.Context, locationID uuid.UUID, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds lifecycle tunables.
type Config struct {
	BarcodeRetries       int
	MaxOffspringPerBatch int
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the cultivation lifecycle business logic.
type Service struct {
	plants       plantRepo
	inventory    inventoryRepo
	types        typeRepo
	harvests     harvestRepo
	destructions destructionRepo
	moves        roomMoveRepo
	rooms        roomRepo
	audit        auditRepo
	tx           txManager
	log          *slog.Logger
	cfg          Config
}

// NewService creates a new lifecycle service.
func NewService(
	log *slog.Logger,
	plants plantRepo,
	inventory inventoryRepo,
	types typeRepo,
	harvests harvestRepo,
	destructions destructionRepo,
	moves roomMoveRepo,
	rooms roomRepo,
	audit auditRepo,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.BarcodeRetries < 1 {
		cfg.BarcodeRetries = 1
	}
	if cfg.MaxOffspringPerBatch < 1 {
		cfg.MaxOffspringPerBatch = 1000
	}
	return &Service{
		plants:       plants,
		inventory:    inventory,
		types:        types,
		harvests:     harvests,
		destructions: destructions,
		moves:        moves,
		rooms:        rooms,
		audit:        audit,
		tx:           tx,
		log:          log.With("service", "lifecycle"),
		cfg:          cfg,
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// checkRoom loads a room and verifies it can receive plants or inventory.
func (s *Service) checkRoom(ctx context.Context, locationID, roomID uuid.UUID) (domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, locationID, roomID)
	if err != nil {
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	if !room.Usable() {
		return domain.Room{}, domain.NewValidationError("room_id", "room is not active")
	}
	return room, nil
}

// createItemWithBarcode inserts an inventory item, generating a fresh barcode
// per attempt and retrying on uniqueness collision. Each attempt runs in its
// own nested RunInTx so that a colliding insert rolls back to a savepoint
// instead of aborting the enclosing transaction.
func (s *Service) createItemWithBarcode(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	var lastErr error
	for range s.cfg.BarcodeRetries {
		item.ID = uuid.Nil
		item.Barcode = domain.NewBarcode()

		var created domain.InventoryItem
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var createErr error
			created, createErr = s.inventory.Create(ctx, item)
			return createErr
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return domain.InventoryItem{}, err
		}
		lastErr = err
	}
	return domain.InventoryItem{}, fmt.Errorf("barcode collision after %d attempts: %w", s.cfg.BarcodeRetries, lastErr)
}
