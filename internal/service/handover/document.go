package handover

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// DocumentView is a document with its fields decoded per section.
type DocumentView struct {
	Document     domain.HandoverDocument
	Sections     map[string]map[string]FieldValue
	Participants []domain.HandoverParticipant
}

// CreateDocument creates an empty document owned by the caller.
func (s *Service) CreateDocument(ctx context.Context, input CreateDocumentInput) (domain.HandoverDocument, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.HandoverDocument{}, domain.ErrUnauthorized
	}
	if input.ApplicationID != nil && *input.ApplicationID <= 0 {
		return domain.HandoverDocument{}, domain.NewValidationError("application_id", "must be positive")
	}

	doc, err := s.docs.CreateDocument(ctx, userID, input.ApplicationID)
	if err != nil {
		return domain.HandoverDocument{}, fmt.Errorf("create document: %w", err)
	}

	s.log.InfoContext(ctx, "handover document created",
		slog.Int64("user_id", userID),
		slog.Int64("document_id", doc.ID),
	)
	return doc, nil
}

// GetDocument returns a document with all of its stored data.
func (s *Service) GetDocument(ctx context.Context, id int64) (DocumentView, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		return DocumentView{}, fmt.Errorf("get document: %w", err)
	}
	if err := s.authorize(ctx, doc); err != nil {
		return DocumentView{}, err
	}

	fields, err := s.docs.ListFields(ctx, id)
	if err != nil {
		return DocumentView{}, fmt.Errorf("list fields: %w", err)
	}
	participants, err := s.docs.ListParticipants(ctx, id)
	if err != nil {
		return DocumentView{}, fmt.Errorf("list participants: %w", err)
	}

	sections := make(map[string]map[string]FieldValue)
	for _, f := range fields {
		if sections[f.SectionName] == nil {
			sections[f.SectionName] = make(map[string]FieldValue)
		}
		sections[f.SectionName][f.FieldName] = decodeField(f)
	}

	return DocumentView{
		Document:     doc,
		Sections:     sections,
		Participants: participants,
	}, nil
}

// ListDocuments returns the caller's documents, or every document for admins.
func (s *Service) ListDocuments(ctx context.Context) ([]domain.HandoverDocument, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var createdBy *int64
	if !ctxutil.IsAdminCtx(ctx) {
		createdBy = &userID
	}

	docs, err := s.docs.ListDocuments(ctx, createdBy)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
