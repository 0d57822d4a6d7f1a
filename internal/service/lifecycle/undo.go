package lifecycle

import (
	"context"
	"fmt"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// UndoOperation reverses a previously audited action. Only room moves are
// reversible: the target is moved back to the room recorded in the original
// audit payload and a compensating movement entry is appended. The original
// record is never mutated; the reversal is a new audit record referencing it.
func (s *Service) UndoOperation(ctx context.Context, input UndoOperationInput) (domain.AuditRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.AuditRecord{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return domain.AuditRecord{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.AuditRecord{}, err
	}

	original, err := s.audit.GetByID(ctx, locationID, input.AuditLogID)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("get audit record: %w", err)
	}

	if original.Action != domain.ActionMoveRoom {
		return domain.AuditRecord{}, domain.NewValidationError("audit_log_id",
			fmt.Sprintf("action %s cannot be undone", original.Action))
	}

	details, ok := original.Details.(*domain.RoomMoveDetails)
	if !ok {
		return domain.AuditRecord{}, fmt.Errorf("audit record %s: malformed room move details", original.ID)
	}
	if details.FromRoomID == nil {
		return domain.AuditRecord{}, domain.NewValidationError("audit_log_id", "original move has no source room to restore")
	}
	fromRoomID := *details.FromRoomID

	if _, err := s.checkRoom(ctx, locationID, fromRoomID); err != nil {
		return domain.AuditRecord{}, err
	}

	var undone domain.AuditRecord
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		move := domain.RoomMove{
			LocationID: locationID,
			FromRoomID: &details.ToRoomID,
			ToRoomID:   fromRoomID,
		}

		switch details.Target {
		case domain.EntityTypePlant:
			if err := s.plants.UpdateRoom(txCtx, locationID, original.EntityID, fromRoomID); err != nil {
				return fmt.Errorf("restore plant room: %w", err)
			}
			entityID := original.EntityID
			move.PlantID = &entityID
		case domain.EntityTypeInventory:
			if err := s.inventory.UpdateRoom(txCtx, locationID, original.EntityID, fromRoomID); err != nil {
				return fmt.Errorf("restore inventory room: %w", err)
			}
			entityID := original.EntityID
			move.InventoryItemID = &entityID
		default:
			return fmt.Errorf("audit record %s: unexpected move target %q", original.ID, details.Target)
		}

		if _, err := s.moves.Create(txCtx, move); err != nil {
			return fmt.Errorf("create compensating move: %w", err)
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     original.Module,
			EntityType: original.EntityType,
			EntityID:   original.EntityID,
			Action:     domain.ActionUndoOperation,
			Details: domain.UndoDetails{
				OriginalAuditID: original.ID,
				Reason:          input.Reason,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		undone = original
		return nil
	})
	if err != nil {
		return domain.AuditRecord{}, err
	}

	s.log.InfoContext(ctx, "operation undone",
		"original_audit_id", original.ID, "entity_type", original.EntityType, "entity_id", original.EntityID)

	return undone, nil
}
