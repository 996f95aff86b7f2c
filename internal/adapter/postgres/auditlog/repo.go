// Package auditlog implements the append-only audit log repository using PostgreSQL.
package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/apptracker/internal/adapter/postgres"
	"github.com/heartmarshall/apptracker/internal/domain"
)

const entity = "audit_log"

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new audit log repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create appends one audit entry and returns it with the generated id and timestamp.
func (r *Repo) Create(ctx context.Context, e domain.AuditLogEntry) (domain.AuditLogEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("audit_log").
		Columns("table_name", "record_id", "field_name", "old_value", "new_value", "changed_by", "action").
		Values(e.TableName, e.RecordID, e.FieldName, e.OldValue, e.NewValue, e.ChangedBy, string(e.Action)).
		Suffix("RETURNING id, is_visible, changed_at").
		ToSql()
	if err != nil {
		return domain.AuditLogEntry{}, fmt.Errorf("build insert audit_log: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.IsVisible, &e.ChangedAt); err != nil {
		return domain.AuditLogEntry{}, postgres.MapError(err, entity, e.RecordID)
	}
	return e, nil
}

// ListByRecord returns every entry recorded against (table, recordID) that
// matches the filter's author and date bounds, most recent first.
// Visibility is not filtered; audit entries cannot be hidden from the feed.
func (r *Repo) ListByRecord(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) ([]domain.AuditLogEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(
			"al.id", "al.table_name", "al.record_id", "al.field_name",
			"al.old_value", "al.new_value", "al.changed_by",
			"COALESCE(NULLIF(u.display_name, ''), u.username, '') AS user_name",
			"al.action", "al.is_visible", "al.changed_at",
		).
		From("audit_log al").
		LeftJoin("users u ON u.id = al.changed_by").
		Where(predicates(table, recordID, f)).
		OrderBy("al.changed_at DESC", "al.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select audit_log: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list audit_log for %s %d: %w", table, recordID, err)
	}

	entries := make([]domain.AuditLogEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.AuditLogEntry{
			ID:        row.ID,
			TableName: row.TableName,
			RecordID:  row.RecordID,
			FieldName: row.FieldName,
			OldValue:  row.OldValue,
			NewValue:  row.NewValue,
			ChangedBy: row.ChangedBy,
			UserName:  row.UserName,
			Action:    domain.AuditAction(row.Action),
			IsVisible: row.IsVisible,
			ChangedAt: row.ChangedAt,
		}
	}
	return entries, nil
}

// CountByRecord counts the entries ListByRecord would return.
func (r *Repo) CountByRecord(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From("audit_log al").
		Where(predicates(table, recordID, f)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count audit_log: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit_log for %s %d: %w", table, recordID, err)
	}
	return count, nil
}

func predicates(table string, recordID int64, f domain.ActivityFilter) squirrel.And {
	pred := squirrel.And{
		squirrel.Eq{"al.table_name": table},
		squirrel.Eq{"al.record_id": recordID},
	}
	if f.UserID != nil {
		pred = append(pred, squirrel.Eq{"al.changed_by": *f.UserID})
	}
	if f.FromDate != nil {
		pred = append(pred, squirrel.GtOrEq{"al.changed_at": *f.FromDate})
	}
	return pred
}

type entryRow struct {
	ID        int64     `db:"id"`
	TableName string    `db:"table_name"`
	RecordID  int64     `db:"record_id"`
	FieldName string    `db:"field_name"`
	OldValue  string    `db:"old_value"`
	NewValue  string    `db:"new_value"`
	ChangedBy int64     `db:"changed_by"`
	UserName  string    `db:"user_name"`
	Action    string    `db:"action"`
	IsVisible bool      `db:"is_visible"`
	ChangedAt time.Time `db:"changed_at"`
}
