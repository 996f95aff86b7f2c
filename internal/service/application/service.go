// Package application manages tracked applications and records their field
// changes in the activity feed.
package application

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
)

type appRepo interface {
	GetByID(ctx context.Context, id int64) (domain.Application, error)
	GetByIDForUpdate(ctx context.Context, id int64) (domain.Application, error)
	List(ctx context.Context, limit, offset int) ([]domain.Application, error)
	Create(ctx context.Context, app domain.Application) (domain.Application, error)
	Update(ctx context.Context, app domain.Application) (domain.Application, error)
}

type changeLogger interface {
	LogFieldChange(ctx context.Context, applicationID int64, field, oldValue, newValue string, action domain.AuditAction) (bool, error)
	DeferEvents(ctx context.Context) context.Context
	PublishDeferred(ctx context.Context)
}

// nameInvalidator drops cached display names. It may be nil.
type nameInvalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Service provides application operations.
type Service struct {
	apps    appRepo
	changes changeLogger
	names   nameInvalidator
	tx      txManager
	log     *slog.Logger
}

// NewService creates a new application service. names may be nil when no
// name cache is configured.
func NewService(log *slog.Logger, apps appRepo, changes changeLogger, names nameInvalidator, tx txManager) *Service {
	return &Service{
		apps:    apps,
		changes: changes,
		names:   names,
		tx:      tx,
		log:     log.With("service", "application"),
	}
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
