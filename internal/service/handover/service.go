// Package handover stores multi-section handover documents as
// (section, field) values driven by a per-section schema.
package handover

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

type documentRepo interface {
	CreateDocument(ctx context.Context, createdBy int64, applicationID *int64) (domain.HandoverDocument, error)
	GetDocument(ctx context.Context, id int64) (domain.HandoverDocument, error)
	GetDocumentForUpdate(ctx context.Context, id int64) (domain.HandoverDocument, error)
	ListDocuments(ctx context.Context, createdBy *int64) ([]domain.HandoverDocument, error)
	UpdateCompletion(ctx context.Context, id int64, percentage float64) error
	UpdateCompletedSteps(ctx context.Context, id int64, steps []int) error

	UpsertField(ctx context.Context, f domain.HandoverField) error
	DeleteField(ctx context.Context, documentID int64, section, field string) error
	ListFields(ctx context.Context, documentID int64) ([]domain.HandoverField, error)
	CountFilledSections(ctx context.Context, documentID int64) (int, error)

	ReplaceParticipants(ctx context.Context, documentID int64, participants []domain.HandoverParticipant) error
	ListParticipants(ctx context.Context, documentID int64) ([]domain.HandoverParticipant, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// stepLocker serializes step toggles of one document across instances.
type stepLocker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Service provides handover document operations.
type Service struct {
	docs   documentRepo
	tx     txManager
	locker stepLocker
	log    *slog.Logger
}

// NewService creates a new handover service. locker may be nil, in which
// case step toggles rely on the row lock alone.
func NewService(log *slog.Logger, docs documentRepo, tx txManager, locker stepLocker) *Service {
	return &Service{
		docs:   docs,
		tx:     tx,
		locker: locker,
		log:    log.With("service", "handover"),
	}
}

// authorize checks that the caller owns doc or is an admin.
func (s *Service) authorize(ctx context.Context, doc domain.HandoverDocument) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if doc.CreatedBy != userID && !ctxutil.IsAdminCtx(ctx) {
		return domain.NewForbiddenError(fmt.Sprintf("handover document %d belongs to another user", doc.ID))
	}
	return nil
}
