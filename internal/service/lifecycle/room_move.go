package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// CreateRoomMove moves a plant or an inventory item into a different room,
// appending a movement log entry. The audit record snapshots the prior room
// so the move can be reversed through UndoOperation.
func (s *Service) CreateRoomMove(ctx context.Context, input CreateRoomMoveInput) (RoomMoveResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return RoomMoveResult{}, domain.ErrUnauthorized
	}
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return RoomMoveResult{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return RoomMoveResult{}, err
	}

	if _, err := s.checkRoom(ctx, locationID, input.ToRoomID); err != nil {
		return RoomMoveResult{}, err
	}

	// Resolve the target entity and its current room.
	var (
		entityType domain.EntityType
		entityID   uuid.UUID
		fromRoomID *uuid.UUID
		plant      domain.Plant
		item       domain.InventoryItem
	)
	switch {
	case input.PlantID != nil:
		p, err := s.plants.GetByID(ctx, locationID, *input.PlantID)
		if err != nil {
			return RoomMoveResult{}, fmt.Errorf("get plant: %w", err)
		}
		plant = p
		entityType = domain.EntityTypePlant
		entityID = p.ID
		room := p.RoomID
		fromRoomID = &room
	default:
		it, err := s.inventory.GetByID(ctx, locationID, *input.InventoryItemID)
		if err != nil {
			return RoomMoveResult{}, fmt.Errorf("get inventory item: %w", err)
		}
		item = it
		entityType = domain.EntityTypeInventory
		entityID = it.ID
		fromRoomID = it.RoomID
	}

	if fromRoomID != nil && *fromRoomID == input.ToRoomID {
		return RoomMoveResult{}, domain.NewValidationError("to_room_id", "entity is already in that room")
	}

	var result RoomMoveResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		move, txErr := s.moves.Create(txCtx, domain.RoomMove{
			LocationID:      locationID,
			PlantID:         input.PlantID,
			InventoryItemID: input.InventoryItemID,
			FromRoomID:      fromRoomID,
			ToRoomID:        input.ToRoomID,
		})
		if txErr != nil {
			return fmt.Errorf("create room move: %w", txErr)
		}

		if input.PlantID != nil {
			if err := s.plants.UpdateRoom(txCtx, locationID, entityID, input.ToRoomID); err != nil {
				return fmt.Errorf("update plant room: %w", err)
			}
			plant.RoomID = input.ToRoomID
			result = RoomMoveResult{Move: move, Plant: &plant}
		} else {
			if err := s.inventory.UpdateRoom(txCtx, locationID, entityID, input.ToRoomID); err != nil {
				return fmt.Errorf("update inventory room: %w", err)
			}
			toRoom := input.ToRoomID
			item.RoomID = &toRoom
			result = RoomMoveResult{Move: move, InventoryItem: &item}
		}

		auditErr := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     &userID,
			LocationID: locationID,
			Module:     domain.ModuleCultivation,
			EntityType: entityType,
			EntityID:   entityID,
			Action:     domain.ActionMoveRoom,
			Details: domain.RoomMoveDetails{
				Target:     entityType,
				FromRoomID: fromRoomID,
				ToRoomID:   input.ToRoomID,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return RoomMoveResult{}, err
	}

	return result, nil
}
