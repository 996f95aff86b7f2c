// Package application implements the application repository using PostgreSQL.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/apptracker/internal/adapter/postgres"
	"github.com/heartmarshall/apptracker/internal/domain"
)

const entity = "application"

var columns = []string{
	"id", "name", "short_name", "status", "description",
	"owner_user_id", "related_applications", "created_at", "updated_at",
}

// Repo provides application persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new application repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// GetByID returns one application.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Application, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate returns one application and row-locks it until the
// surrounding transaction ends.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id int64) (domain.Application, error) {
	return r.get(ctx, id, true)
}

func (r *Repo) get(ctx context.Context, id int64, lock bool) (domain.Application, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().Select(columns...).From("applications").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return domain.Application{}, fmt.Errorf("build select application: %w", err)
	}

	var row appRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.Application{}, postgres.MapError(err, entity, id)
	}
	return row.toDomain()
}

// GetByIDs returns the applications among ids that exist, in no particular order.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Application, error) {
	if len(ids) == 0 {
		return []domain.Application{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From("applications").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select applications by ids: %w", err)
	}

	var rows []appRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select applications by ids: %w", err)
	}
	return toDomainList(rows)
}

// List returns applications ordered by name.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Application, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().Select(columns...).From("applications").OrderBy("name ASC", "id ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list applications: %w", err)
	}

	var rows []appRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return toDomainList(rows)
}

// Create inserts an application.
func (r *Repo) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("applications").
		Columns("name", "short_name", "status", "description", "owner_user_id", "related_applications").
		Values(app.Name, app.ShortName, string(app.Status), app.Description, app.OwnerUserID,
			domain.FormatIDList(app.RelatedApplications)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return domain.Application{}, fmt.Errorf("build insert application: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return domain.Application{}, postgres.MapError(err, entity, 0)
	}
	return app, nil
}

// Update overwrites the mutable columns of an application.
func (r *Repo) Update(ctx context.Context, app domain.Application) (domain.Application, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update("applications").
		Set("name", app.Name).
		Set("short_name", app.ShortName).
		Set("status", string(app.Status)).
		Set("description", app.Description).
		Set("related_applications", domain.FormatIDList(app.RelatedApplications)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": app.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return domain.Application{}, fmt.Errorf("build update application: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&app.UpdatedAt); err != nil {
		return domain.Application{}, postgres.MapError(err, entity, app.ID)
	}
	return app, nil
}

type appRow struct {
	ID                  int64     `db:"id"`
	Name                string    `db:"name"`
	ShortName           string    `db:"short_name"`
	Status              string    `db:"status"`
	Description         string    `db:"description"`
	OwnerUserID         int64     `db:"owner_user_id"`
	RelatedApplications string    `db:"related_applications"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func (row appRow) toDomain() (domain.Application, error) {
	related, err := domain.ParseIDList(row.RelatedApplications)
	if err != nil {
		return domain.Application{}, fmt.Errorf("application %d related_applications: %w", row.ID, err)
	}
	return domain.Application{
		ID:                  row.ID,
		Name:                row.Name,
		ShortName:           row.ShortName,
		Status:              domain.ApplicationStatus(row.Status),
		Description:         row.Description,
		OwnerUserID:         row.OwnerUserID,
		RelatedApplications: related,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func toDomainList(rows []appRow) ([]domain.Application, error) {
	apps := make([]domain.Application, len(rows))
	for i, row := range rows {
		app, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		apps[i] = app
	}
	return apps, nil
}
