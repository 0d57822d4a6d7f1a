// Package conversion implements the material transformation pipeline:
// wet to dry, dry to extraction, extraction to finished goods. Each step
// enforces category compatibility, weight conservation, and room validity,
// and records the full mass balance in the audit log.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

type inventoryRepo interface {
	Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	DecrementWeight(ctx context.Context, locationID, id uuid.UUID, grams float64) error
	GetByIDWithType(ctx context.Context, locationID, id uuid.UUID) (domain.InventoryItem, domain.InventoryType, error)
	List(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, int, error)
}

type typeRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.InventoryType, error)
}

type roomRepo interface {
	GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.Room, error)
}

type auditRepo interface {
	Log(ctx context.Context, record domain.AuditRecord) error
	GetLatestByAction(ctx context.Context, locationID uuid.UUID, entityID uuid.UUID, action domain.AuditAction) (domain.AuditRecord, error)
	List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds conversion tunables.
type Config struct {
	BarcodeRetries int
	MaxListLimit   int
}

// Service implements the conversion pipeline business logic.
type Service struct {
	inventory inventoryRepo
	types     typeRepo
	rooms     roomRepo
	audit     auditRepo
	tx        txManager
	log       *slog.Logger
	cfg       Config
}

// NewService creates a new conversion service.
func NewService(
	log *slog.Logger,
	inventory inventoryRepo,
	types typeRepo,
	rooms roomRepo,
	audit auditRepo,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.BarcodeRetries < 1 {
		cfg.BarcodeRetries = 1
	}
	if cfg.MaxListLimit < 1 {
		cfg.MaxListLimit = 200
	}
	return &Service{
		inventory: inventory,
		types:     types,
		rooms:     rooms,
		audit:     audit,
		tx:        tx,
		log:       log.With("service", "conversion"),
		cfg:       cfg,
	}
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
