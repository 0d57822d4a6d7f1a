// Package audit implements the audit log repository using PostgreSQL.
// It provides append-only operations: records are never updated or deleted.
package audit

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

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const auditColumns = `id, user_id, location_id, module, entity_type, entity_id, action, details, created_at`

const createSQL = `
INSERT INTO audit_logs (id, user_id, location_id, module, entity_type, entity_id, action, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + auditColumns

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new audit record and returns the persisted domain.AuditRecord.
func (r *Repo) Create(ctx context.Context, record domain.AuditRecord) (domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	details, err := domain.EncodeAuditDetails(record.Details)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_log %s: %w", record.ID, err)
	}

	row := q.QueryRow(ctx, createSQL,
		record.ID, record.UserID, record.LocationID, record.Module,
		record.EntityType, record.EntityID, record.Action, details, record.CreatedAt,
	)

	created, err := scanRecord(row)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_log", record.ID)
	}
	return created, nil
}

// Log creates an audit record without returning it. Satisfies the
// auditLogger interface consumed by the lifecycle and conversion services.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	_, err := r.Create(ctx, record)
	return err
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a single audit record scoped to a location.
func (r *Repo) GetByID(ctx context.Context, locationID, id uuid.UUID) (domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+auditColumns+` FROM audit_logs WHERE id = $1 AND location_id = $2`,
		id, locationID,
	)

	record, err := scanRecord(row)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_log", id)
	}
	return record, nil
}

// GetByEntity returns the change history for a specific entity, ordered by
// created_at DESC, limited to `limit` records.
func (r *Repo) GetByEntity(ctx context.Context, locationID uuid.UUID, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+auditColumns+` FROM audit_logs
		 WHERE location_id = $1 AND entity_type = $2 AND entity_id = $3
		 ORDER BY created_at DESC
		 LIMIT $4`,
		locationID, entityType, entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get audit_logs by entity: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetLatestByAction returns the most recent record with the given action for
// an entity. Used by the conversion query side to reconstruct conversion
// metadata for an inventory item.
func (r *Repo) GetLatestByAction(ctx context.Context, locationID uuid.UUID, entityID uuid.UUID, action domain.AuditAction) (domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+auditColumns+` FROM audit_logs
		 WHERE location_id = $1 AND entity_id = $2 AND action = $3
		 ORDER BY created_at DESC
		 LIMIT 1`,
		locationID, entityID, action,
	)

	record, err := scanRecord(row)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_log", entityID)
	}
	return record, nil
}

// List returns audit records matching the filter, newest first, plus the
// total match count for pagination.
func (r *Repo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From("audit_logs").
		Where(sq.Eq{"location_id": f.LocationID})

	if f.EntityType != nil {
		base = base.Where(sq.Eq{"entity_type": *f.EntityType})
	}
	if f.EntityID != nil {
		base = base.Where(sq.Eq{"entity_id": *f.EntityID})
	}
	if f.UserID != nil {
		base = base.Where(sq.Eq{"user_id": *f.UserID})
	}
	if f.Action != nil {
		base = base.Where(sq.Eq{"action": *f.Action})
	}
	if f.From != nil {
		base = base.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		base = base.Where(sq.Lt{"created_at": *f.To})
	}

	countSQL, countArgs, err := base.Column("count(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit_logs: %w", err)
	}

	listBuilder := base.Column(auditColumns).OrderBy("created_at DESC")
	if f.Limit > 0 {
		listBuilder = listBuilder.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit_logs: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.AuditRecord, error) {
	var (
		record domain.AuditRecord
		raw    []byte
	)
	err := row.Scan(
		&record.ID, &record.UserID, &record.LocationID, &record.Module,
		&record.EntityType, &record.EntityID, &record.Action, &raw, &record.CreatedAt,
	)
	if err != nil {
		return domain.AuditRecord{}, err
	}

	details, err := domain.DecodeAuditDetails(record.Action, raw)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_log %s: %w", record.ID, err)
	}
	record.Details = details

	return record, nil
}

func scanRecords(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit_logs: %w", err)
	}
	return records, nil
}
