package conversion

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/pkg/ctxutil"
)

// maxAuditScan caps how many audit records a single list query walks before
// the in-memory filters are applied.
const maxAuditScan = 1000

// GetConversion returns an inventory item joined with the most recent
// conversion audit record that produced it.
func (s *Service) GetConversion(ctx context.Context, itemID uuid.UUID) (Conversion, error) {
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return Conversion{}, domain.ErrUnauthorized
	}

	item, _, err := s.inventory.GetByIDWithType(ctx, locationID, itemID)
	if err != nil {
		return Conversion{}, fmt.Errorf("get item: %w", err)
	}

	record, err := s.audit.GetLatestByAction(ctx, locationID, itemID, domain.ActionConversion)
	if err != nil {
		return Conversion{}, fmt.Errorf("get conversion record: %w", err)
	}
	details, ok := record.Details.(*domain.ConversionDetails)
	if !ok {
		return Conversion{}, fmt.Errorf("audit record %s: malformed conversion details", record.ID)
	}

	return Conversion{
		AuditID:   record.ID,
		Item:      item,
		Details:   *details,
		CreatedAt: record.CreatedAt,
	}, nil
}

// ListConversions returns conversions within a date range, newest first.
// Audit records are filtered first, the optional type, strain, and room
// filters are applied to the parsed details, and the matching inventory rows
// are fetched in one batch and re-joined in memory.
func (s *Service) ListConversions(ctx context.Context, input ListConversionsInput) ([]Conversion, int, error) {
	locationID, ok := ctxutil.LocationIDFromCtx(ctx)
	if !ok {
		return nil, 0, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	limit := input.Limit
	if limit <= 0 || limit > s.cfg.MaxListLimit {
		limit = s.cfg.MaxListLimit
	}

	action := domain.ActionConversion
	records, _, err := s.audit.List(ctx, domain.AuditFilter{
		LocationID: locationID,
		Action:     &action,
		From:       input.From,
		To:         input.To,
		Limit:      maxAuditScan,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list conversion records: %w", err)
	}

	type match struct {
		record  domain.AuditRecord
		details domain.ConversionDetails
	}
	var matches []match
	for _, rec := range records {
		details, ok := rec.Details.(*domain.ConversionDetails)
		if !ok {
			continue
		}
		if input.Type != nil && details.Type != *input.Type {
			continue
		}
		if input.Strain != nil && details.Strain != *input.Strain {
			continue
		}
		if input.RoomID != nil && details.RoomID != *input.RoomID {
			continue
		}
		matches = append(matches, match{record: rec, details: *details})
	}

	total := len(matches)
	if input.Offset >= total {
		return nil, total, nil
	}
	end := input.Offset + limit
	if end > total {
		end = total
	}
	page := matches[input.Offset:end]

	itemIDs := make([]uuid.UUID, 0, len(page))
	for _, m := range page {
		itemIDs = append(itemIDs, m.details.OutputItemID)
	}
	items, _, err := s.inventory.List(ctx, domain.InventoryFilter{
		LocationID: locationID,
		IDs:        itemIDs,
		Limit:      len(itemIDs),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list conversion items: %w", err)
	}
	itemsByID := make(map[uuid.UUID]domain.InventoryItem, len(items))
	for _, it := range items {
		itemsByID[it.ID] = it
	}

	out := make([]Conversion, 0, len(page))
	for _, m := range page {
		out = append(out, Conversion{
			AuditID:   m.record.ID,
			Item:      itemsByID[m.details.OutputItemID],
			Details:   m.details,
			CreatedAt: m.record.CreatedAt,
		})
	}
	return out, total, nil
}
