// Package userstory implements the user story repository using PostgreSQL.
package userstory

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/apptracker/internal/adapter/postgres"
	"github.com/heartmarshall/apptracker/internal/domain"
)

const entity = "user_story"

var columns = []string{
	"id", "application_id", "title", "role", "want", "benefit", "acceptance_criteria",
	"priority", "status", "story_points", "tags", "created_by", "created_at", "updated_at",
}

// Repo provides user story persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new user story repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a story.
func (r *Repo) Create(ctx context.Context, s domain.UserStory) (domain.UserStory, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert("user_stories").
		Columns("application_id", "title", "role", "want", "benefit", "acceptance_criteria",
			"priority", "status", "story_points", "tags", "created_by").
		Values(s.ApplicationID, s.Title, s.Role, s.Want, s.Benefit, s.AcceptanceCriteria,
			string(s.Priority), string(s.Status), s.StoryPoints, tagsOrEmpty(s.Tags), s.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return domain.UserStory{}, fmt.Errorf("build insert user_story: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.UserStory{}, postgres.MapError(err, entity, 0)
	}
	s.Tags = tagsOrEmpty(s.Tags)
	return s, nil
}

// GetByID returns one story.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.UserStory, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate returns one story and row-locks it until the surrounding
// transaction ends.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id int64) (domain.UserStory, error) {
	return r.get(ctx, id, true)
}

func (r *Repo) get(ctx context.Context, id int64, lock bool) (domain.UserStory, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().Select(columns...).From("user_stories").Where(squirrel.Eq{"id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return domain.UserStory{}, fmt.Errorf("build select user_story: %w", err)
	}

	var row storyRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.UserStory{}, postgres.MapError(err, entity, id)
	}
	return row.toDomain(), nil
}

// List returns stories matching the filter, newest first.
func (r *Repo) List(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Select(columns...).
		From("user_stories").
		Where(filterPredicates(f)).
		OrderBy("created_at DESC", "id DESC")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list user_stories: %w", err)
	}

	var rows []storyRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list user_stories: %w", err)
	}

	stories := make([]domain.UserStory, len(rows))
	for i, row := range rows {
		stories[i] = row.toDomain()
	}
	return stories, nil
}

// Update overwrites the mutable columns of a story.
func (r *Repo) Update(ctx context.Context, s domain.UserStory) (domain.UserStory, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update("user_stories").
		Set("title", s.Title).
		Set("role", s.Role).
		Set("want", s.Want).
		Set("benefit", s.Benefit).
		Set("acceptance_criteria", s.AcceptanceCriteria).
		Set("priority", string(s.Priority)).
		Set("status", string(s.Status)).
		Set("story_points", s.StoryPoints).
		Set("tags", tagsOrEmpty(s.Tags)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return domain.UserStory{}, fmt.Errorf("build update user_story: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&s.UpdatedAt); err != nil {
		return domain.UserStory{}, postgres.MapError(err, entity, s.ID)
	}
	return s, nil
}

// Delete removes a story.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete("user_stories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user_story: %w", err)
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

// Aggregate returns story counts and point sums grouped by status and priority.
func (r *Repo) Aggregate(ctx context.Context, applicationID *int64) ([]domain.UserStoryAggregate, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Select("status", "priority", "COUNT(*) AS count", "COALESCE(SUM(story_points), 0) AS points").
		From("user_stories").
		GroupBy("status", "priority").
		OrderBy("status", "priority")
	if applicationID != nil {
		b = b.Where(squirrel.Eq{"application_id": *applicationID})
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build aggregate user_stories: %w", err)
	}

	var rows []aggregateRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("aggregate user_stories: %w", err)
	}

	out := make([]domain.UserStoryAggregate, len(rows))
	for i, row := range rows {
		out[i] = domain.UserStoryAggregate{
			Status:   domain.StoryStatus(row.Status),
			Priority: domain.StoryPriority(row.Priority),
			Count:    row.Count,
			Points:   row.Points,
		}
	}
	return out, nil
}

func filterPredicates(f domain.UserStoryFilter) squirrel.And {
	pred := squirrel.And{}
	if f.ApplicationID != nil {
		pred = append(pred, squirrel.Eq{"application_id": *f.ApplicationID})
	}
	if f.Status != nil {
		pred = append(pred, squirrel.Eq{"status": string(*f.Status)})
	}
	if f.Priority != nil {
		pred = append(pred, squirrel.Eq{"priority": string(*f.Priority)})
	}
	if f.CreatedBy != nil {
		pred = append(pred, squirrel.Eq{"created_by": *f.CreatedBy})
	}
	return pred
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

type storyRow struct {
	ID                 int64     `db:"id"`
	ApplicationID      *int64    `db:"application_id"`
	Title              string    `db:"title"`
	Role               string    `db:"role"`
	Want               string    `db:"want"`
	Benefit            string    `db:"benefit"`
	AcceptanceCriteria string    `db:"acceptance_criteria"`
	Priority           string    `db:"priority"`
	Status             string    `db:"status"`
	StoryPoints        *int      `db:"story_points"`
	Tags               []string  `db:"tags"`
	CreatedBy          int64     `db:"created_by"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (row storyRow) toDomain() domain.UserStory {
	return domain.UserStory{
		ID:                 row.ID,
		ApplicationID:      row.ApplicationID,
		Title:              row.Title,
		Role:               row.Role,
		Want:               row.Want,
		Benefit:            row.Benefit,
		AcceptanceCriteria: row.AcceptanceCriteria,
		Priority:           domain.StoryPriority(row.Priority),
		Status:             domain.StoryStatus(row.Status),
		StoryPoints:        row.StoryPoints,
		Tags:               tagsOrEmpty(row.Tags),
		CreatedBy:          row.CreatedBy,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type aggregateRow struct {
	Status   string `db:"status"`
	Priority string `db:"priority"`
	Count    int    `db:"count"`
	Points   int    `db:"points"`
}
