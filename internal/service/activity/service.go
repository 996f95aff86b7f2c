// Package activity merges work notes and audit log entries into a single
// application activity feed and records new activity.
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/apptracker/internal/domain"
)

type workNoteRepo interface {
	Create(ctx context.Context, n domain.WorkNote) (domain.WorkNote, error)
	SetVisibility(ctx context.Context, id int64, visible bool) error
	ListByApplication(ctx context.Context, applicationID int64, f domain.ActivityFilter) ([]domain.WorkNote, error)
	CountByApplication(ctx context.Context, applicationID int64, f domain.ActivityFilter) (int, error)
	GetAttachment(ctx context.Context, id int64) (domain.WorkNote, error)
}

type auditRepo interface {
	Create(ctx context.Context, e domain.AuditLogEntry) (domain.AuditLogEntry, error)
	ListByRecord(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) ([]domain.AuditLogEntry, error)
	CountByRecord(ctx context.Context, table string, recordID int64, f domain.ActivityFilter) (int, error)
}

// nameResolver maps application ids to display names. Unknown ids are
// absent from the result.
type nameResolver interface {
	ResolveNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, e domain.ActivityEvent) error
}

// Service provides activity feed reads and activity writes.
type Service struct {
	notes              workNoteRepo
	audit              auditRepo
	names              nameResolver
	events             eventPublisher
	log                *slog.Logger
	maxAttachmentBytes int64
	now                func() time.Time
}

// NewService creates a new activity service.
func NewService(
	log *slog.Logger,
	notes workNoteRepo,
	audit auditRepo,
	names nameResolver,
	events eventPublisher,
	maxAttachmentBytes int64,
) *Service {
	return &Service{
		notes:              notes,
		audit:              audit,
		names:              names,
		events:             events,
		log:                log.With("service", "activity"),
		maxAttachmentBytes: maxAttachmentBytes,
		now:                time.Now,
	}
}
