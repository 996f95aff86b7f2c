// Package worknote implements the work note repository using PostgreSQL.
package worknote

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/apptracker/internal/adapter/postgres"
	"github.com/heartmarshall/apptracker/internal/domain"
)

const entity = "work_note"

// listColumns never includes attachment_data; the payload is only read by GetAttachment.
var listColumns = []string{
	"wn.id",
	"wn.application_id",
	"wn.user_id",
	"COALESCE(NULLIF(u.display_name, ''), u.username, '') AS user_name",
	"wn.note",
	"wn.type",
	"wn.priority",
	"wn.attachment_filename",
	"wn.attachment_size",
	"wn.attachment_mime_type",
	"wn.is_visible",
	"wn.created_at",
	"wn.updated_at",
}

// Repo provides work note persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new work note repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a work note and returns it with the generated id and timestamps.
func (r *Repo) Create(ctx context.Context, n domain.WorkNote) (domain.WorkNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var (
		data           []byte
		filename, mime *string
		size           *int64
	)
	if n.Attachment != nil {
		data = n.Attachment.Data
		filename = &n.Attachment.Filename
		mime = &n.Attachment.MIMEType
		size = &n.Attachment.Size
	}

	sql, args, err := postgres.Builder().
		Insert("work_notes").
		Columns("application_id", "user_id", "note", "type", "priority",
			"attachment_data", "attachment_filename", "attachment_size", "attachment_mime_type", "is_visible").
		Values(n.ApplicationID, n.UserID, n.Note, n.Type, string(n.Priority),
			data, filename, size, mime, true).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return domain.WorkNote{}, fmt.Errorf("build insert work_note: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return domain.WorkNote{}, postgres.MapError(err, entity, n.ApplicationID)
	}

	n.IsVisible = true
	return n, nil
}

// SetVisibility flips the visibility flag of one work note. It returns
// domain.ErrNotFound when no such note exists.
func (r *Repo) SetVisibility(ctx context.Context, id int64, visible bool) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update("work_notes").
		Set("is_visible", visible).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update work_note visibility: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByApplication returns every work note of the application matching
// the filter, most recent first. Attachment payloads are not loaded.
func (r *Repo) ListByApplication(ctx context.Context, applicationID int64, f domain.ActivityFilter) ([]domain.WorkNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(listColumns...).
		From("work_notes wn").
		LeftJoin("users u ON u.id = wn.user_id").
		Where(predicates(applicationID, f)).
		OrderBy("wn.created_at DESC", "wn.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select work_notes: %w", err)
	}

	var rows []noteRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list work_notes for application %d: %w", applicationID, err)
	}

	notes := make([]domain.WorkNote, len(rows))
	for i, row := range rows {
		notes[i] = row.toDomain()
	}
	return notes, nil
}

// CountByApplication counts the notes ListByApplication would return.
func (r *Repo) CountByApplication(ctx context.Context, applicationID int64, f domain.ActivityFilter) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From("work_notes wn").
		Where(predicates(applicationID, f)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count work_notes: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count work_notes for application %d: %w", applicationID, err)
	}
	return count, nil
}

// GetAttachment returns the note with its attachment payload loaded.
// Notes without an attachment yield domain.ErrNotFound.
func (r *Repo) GetAttachment(ctx context.Context, id int64) (domain.WorkNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(append(listColumns, "wn.attachment_data")...).
		From("work_notes wn").
		LeftJoin("users u ON u.id = wn.user_id").
		Where(squirrel.Eq{"wn.id": id}).
		Where(squirrel.NotEq{"wn.attachment_filename": nil}).
		ToSql()
	if err != nil {
		return domain.WorkNote{}, fmt.Errorf("build select work_note attachment: %w", err)
	}

	var row noteRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.WorkNote{}, postgres.MapError(err, entity, id)
	}

	n := row.toDomain()
	if n.Attachment != nil {
		n.Attachment.Data = row.AttachmentData
	}
	return n, nil
}

// predicates is shared by the list and count queries so both always agree.
func predicates(applicationID int64, f domain.ActivityFilter) squirrel.And {
	pred := squirrel.And{squirrel.Eq{"wn.application_id": applicationID}}
	if !f.ShowHidden {
		pred = append(pred, squirrel.Eq{"wn.is_visible": true})
	}
	if f.UserID != nil {
		pred = append(pred, squirrel.Eq{"wn.user_id": *f.UserID})
	}
	if f.FromDate != nil {
		pred = append(pred, squirrel.GtOrEq{"wn.created_at": *f.FromDate})
	}
	return pred
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type noteRow struct {
	ID                 int64     `db:"id"`
	ApplicationID      int64     `db:"application_id"`
	UserID             int64     `db:"user_id"`
	UserName           string    `db:"user_name"`
	Note               string    `db:"note"`
	Type               string    `db:"type"`
	Priority           string    `db:"priority"`
	AttachmentFilename *string   `db:"attachment_filename"`
	AttachmentSize     *int64    `db:"attachment_size"`
	AttachmentMIMEType *string   `db:"attachment_mime_type"`
	AttachmentData     []byte    `db:"attachment_data"`
	IsVisible          bool      `db:"is_visible"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (row noteRow) toDomain() domain.WorkNote {
	n := domain.WorkNote{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		UserID:        row.UserID,
		UserName:      row.UserName,
		Note:          row.Note,
		Type:          row.Type,
		Priority:      domain.Priority(row.Priority),
		IsVisible:     row.IsVisible,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.AttachmentFilename != nil {
		n.Attachment = &domain.Attachment{Filename: *row.AttachmentFilename}
		if row.AttachmentSize != nil {
			n.Attachment.Size = *row.AttachmentSize
		}
		if row.AttachmentMIMEType != nil {
			n.Attachment.MIMEType = *row.AttachmentMIMEType
		}
	}
	return n
}
