// Package handover implements the handover document field store using PostgreSQL.
//
// Field values live in handover_data keyed by (document, section, field) and
// are written with a single upsert. The participants array is additionally
// projected into handover_participants.
package handover

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/apptracker/internal/adapter/postgres"
	"github.com/heartmarshall/apptracker/internal/domain"
)

const entity = "handover_document"

var documentColumns = []string{
	"id",
	"application_id",
	"created_by",
	"completed_steps",
	"completion_percentage::float8 AS completion_percentage",
	"created_at",
	"updated_at",
}

// Repo provides handover persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new handover repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// CreateDocument inserts an empty document.
func (r *Repo) CreateDocument(ctx context.Context, createdBy int64, applicationID *int64) (domain.HandoverDocument, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("handover_documents").
		Columns("application_id", "created_by").
		Values(applicationID, createdBy).
		Suffix("RETURNING " + strings.Join(documentColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.HandoverDocument{}, fmt.Errorf("build insert handover_document: %w", err)
	}

	var row documentRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.HandoverDocument{}, postgres.MapError(err, entity, 0)
	}
	return row.toDomain()
}

// GetDocument returns one document.
func (r *Repo) GetDocument(ctx context.Context, id int64) (domain.HandoverDocument, error) {
	return r.getDocument(ctx, id, false)
}

// GetDocumentForUpdate returns one document and row-locks it until the
// surrounding transaction ends.
func (r *Repo) GetDocumentForUpdate(ctx context.Context, id int64) (domain.HandoverDocument, error) {
	return r.getDocument(ctx, id, true)
}

func (r *Repo) getDocument(ctx context.Context, id int64, lock bool) (domain.HandoverDocument, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().Select(documentColumns...).From("handover_documents").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return domain.HandoverDocument{}, fmt.Errorf("build select handover_document: %w", err)
	}

	var row documentRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.HandoverDocument{}, postgres.MapError(err, entity, id)
	}
	return row.toDomain()
}

// ListDocuments returns documents, newest first. A nil createdBy lists all.
func (r *Repo) ListDocuments(ctx context.Context, createdBy *int64) ([]domain.HandoverDocument, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().Select(documentColumns...).From("handover_documents").OrderBy("updated_at DESC", "id DESC")
	if createdBy != nil {
		b = b.Where(squirrel.Eq{"created_by": *createdBy})
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list handover_documents: %w", err)
	}

	var rows []documentRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list handover_documents: %w", err)
	}

	docs := make([]domain.HandoverDocument, len(rows))
	for i, row := range rows {
		doc, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

// UpdateCompletion stores the recomputed completion percentage.
func (r *Repo) UpdateCompletion(ctx context.Context, id int64, percentage float64) error {
	return r.updateDocument(ctx, id, "completion_percentage", percentage)
}

// UpdateCompletedSteps stores the completed step set.
func (r *Repo) UpdateCompletedSteps(ctx context.Context, id int64, steps []int) error {
	if steps == nil {
		steps = []int{}
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("%s %d marshal completed_steps: %w", entity, id, err)
	}
	return r.updateDocument(ctx, id, "completed_steps", string(b))
}

func (r *Repo) updateDocument(ctx context.Context, id int64, column string, value any) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update("handover_documents").
		Set(column, value).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update handover_document %s: %w", column, err)
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
// Fields
// ---------------------------------------------------------------------------

// UpsertField stores value under (document, section, field), replacing any
// previous value for that key.
func (r *Repo) UpsertField(ctx context.Context, f domain.HandoverField) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("handover_data").
		Columns("handover_document_id", "section_name", "field_name", "field_value").
		Values(f.DocumentID, f.SectionName, f.FieldName, f.Value).
		Suffix("ON CONFLICT (handover_document_id, section_name, field_name) " +
			"DO UPDATE SET field_value = EXCLUDED.field_value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert handover_data: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, entity, f.DocumentID)
	}
	return nil
}

// DeleteField removes the value stored under (document, section, field), if any.
func (r *Repo) DeleteField(ctx context.Context, documentID int64, section, field string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("handover_data").
		Where(squirrel.Eq{"handover_document_id": documentID}).
		Where(squirrel.Eq{"section_name": section}).
		Where(squirrel.Eq{"field_name": field}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete handover_data: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, entity, documentID)
	}
	return nil
}

// ListFields returns every stored field of the document ordered by section and field.
func (r *Repo) ListFields(ctx context.Context, documentID int64) ([]domain.HandoverField, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("handover_document_id", "section_name", "field_name", "field_value").
		From("handover_data").
		Where(squirrel.Eq{"handover_document_id": documentID}).
		OrderBy("section_name", "field_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select handover_data: %w", err)
	}

	var rows []fieldRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list handover_data for document %d: %w", documentID, err)
	}

	fields := make([]domain.HandoverField, len(rows))
	for i, row := range rows {
		fields[i] = domain.HandoverField{
			DocumentID:  row.DocumentID,
			SectionName: row.SectionName,
			FieldName:   row.FieldName,
			Value:       row.Value,
		}
	}
	return fields, nil
}

// CountFilledSections returns the number of distinct sections with at least one stored field.
func (r *Repo) CountFilledSections(ctx context.Context, documentID int64) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("COUNT(DISTINCT section_name)").
		From("handover_data").
		Where(squirrel.Eq{"handover_document_id": documentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count handover sections: %w", err)
	}

	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count handover sections for document %d: %w", documentID, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Participants
// ---------------------------------------------------------------------------

// ReplaceParticipants deletes every participant row of the document and
// inserts the given ones in order.
func (r *Repo) ReplaceParticipants(ctx context.Context, documentID int64, participants []domain.HandoverParticipant) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("handover_participants").
		Where(squirrel.Eq{"handover_document_id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete handover_participants: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, entity, documentID)
	}

	if len(participants) == 0 {
		return nil
	}

	ins := postgres.Builder().
		Insert("handover_participants").
		Columns("handover_document_id", "role", "name", "organization", "contact_info", "position")
	for i, p := range participants {
		ins = ins.Values(documentID, p.Role, p.Name, p.Organization, p.ContactInfo, i)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert handover_participants: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, entity, documentID)
	}
	return nil
}

// ListParticipants returns the participant rows of the document in position order.
func (r *Repo) ListParticipants(ctx context.Context, documentID int64) ([]domain.HandoverParticipant, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("handover_document_id", "role", "name", "organization", "contact_info", "position").
		From("handover_participants").
		Where(squirrel.Eq{"handover_document_id": documentID}).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select handover_participants: %w", err)
	}

	var rows []participantRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list handover_participants for document %d: %w", documentID, err)
	}

	out := make([]domain.HandoverParticipant, len(rows))
	for i, row := range rows {
		out[i] = domain.HandoverParticipant(row)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type documentRow struct {
	ID                   int64     `db:"id"`
	ApplicationID        *int64    `db:"application_id"`
	CreatedBy            int64     `db:"created_by"`
	CompletedSteps       []byte    `db:"completed_steps"`
	CompletionPercentage float64   `db:"completion_percentage"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (row documentRow) toDomain() (domain.HandoverDocument, error) {
	steps := []int{}
	if len(row.CompletedSteps) > 0 {
		if err := json.Unmarshal(row.CompletedSteps, &steps); err != nil {
			return domain.HandoverDocument{}, fmt.Errorf("%s %d unmarshal completed_steps: %w", entity, row.ID, err)
		}
	}
	return domain.HandoverDocument{
		ID:                   row.ID,
		ApplicationID:        row.ApplicationID,
		CreatedBy:            row.CreatedBy,
		CompletedSteps:       steps,
		CompletionPercentage: row.CompletionPercentage,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

type fieldRow struct {
	DocumentID  int64  `db:"handover_document_id"`
	SectionName string `db:"section_name"`
	FieldName   string `db:"field_name"`
	Value       string `db:"field_value"`
}

type participantRow struct {
	DocumentID   int64  `db:"handover_document_id"`
	Role         string `db:"role"`
	Name         string `db:"name"`
	Organization string `db:"organization"`
	ContactInfo  string `db:"contact_info"`
	Position     int    `db:"position"`
}
