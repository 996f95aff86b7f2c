// Package userstory manages user stories and reports their statistics.
package userstory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

type storyRepo interface {
	Create(ctx context.Context, s domain.UserStory) (domain.UserStory, error)
	GetByID(ctx context.Context, id int64) (domain.UserStory, error)
	GetByIDForUpdate(ctx context.Context, id int64) (domain.UserStory, error)
	List(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error)
	Update(ctx context.Context, s domain.UserStory) (domain.UserStory, error)
	Delete(ctx context.Context, id int64) error
	Aggregate(ctx context.Context, applicationID *int64) ([]domain.UserStoryAggregate, error)
}

// changeLogger records field changes in the application activity feed.
type changeLogger interface {
	LogFieldChange(ctx context.Context, applicationID int64, field, oldValue, newValue string, action domain.AuditAction) (bool, error)
	DeferEvents(ctx context.Context) context.Context
	PublishDeferred(ctx context.Context)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Service provides user story operations.
type Service struct {
	stories storyRepo
	changes changeLogger
	tx      txManager
	log     *slog.Logger
}

// NewService creates a new user story service.
func NewService(log *slog.Logger, stories storyRepo, changes changeLogger, tx txManager) *Service {
	return &Service{
		stories: stories,
		changes: changes,
		tx:      tx,
		log:     log.With("service", "userstory"),
	}
}

func canModify(ctx context.Context, userID int64, s domain.UserStory) error {
	if s.CreatedBy != userID && !ctxutil.IsAdminCtx(ctx) {
		return domain.NewForbiddenError(fmt.Sprintf("user story %d belongs to another user", s.ID))
	}
	return nil
}

func storyField(id int64) string {
	return fmt.Sprintf("user_story[%d]", id)
}

// inTx runs fn in one transaction. Activity events raised by fn are
// published only after the commit.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = s.changes.DeferEvents(ctx)
	if err := s.tx.RunInTx(ctx, fn); err != nil {
		return err
	}
	s.changes.PublishDeferred(ctx)
	return nil
}
