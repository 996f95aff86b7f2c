package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/observability"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// AddWorkNote stores a note authored by the current user. It writes no
// audit entry.
func (s *Service) AddWorkNote(ctx context.Context, input AddWorkNoteInput) (domain.WorkNote, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.WorkNote{}, domain.ErrUnauthorized
	}

	if err := input.Validate(s.maxAttachmentBytes); err != nil {
		return domain.WorkNote{}, err
	}

	note, err := s.notes.Create(ctx, input.toWorkNote(userID))
	if err != nil {
		return domain.WorkNote{}, fmt.Errorf("create work note: %w", err)
	}

	observability.RecordWorkNoteAdded()
	s.log.InfoContext(ctx, "work note added",
		slog.Int64("user_id", userID),
		slog.Int64("application_id", note.ApplicationID),
		slog.Int64("work_note_id", note.ID),
		slog.Bool("attachment", note.Attachment != nil),
	)

	s.publish(ctx, domain.ActivityEvent{
		Type:          domain.EventWorkNoteAdded,
		ApplicationID: note.ApplicationID,
		ActivityID:    note.ID,
		UserID:        userID,
	})

	return note, nil
}

// GetWorkNoteAttachment returns the note together with its attachment
// payload. Attachments of hidden notes are only served to admins.
func (s *Service) GetWorkNoteAttachment(ctx context.Context, id int64) (domain.WorkNote, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.WorkNote{}, domain.ErrUnauthorized
	}

	note, err := s.notes.GetAttachment(ctx, id)
	if err != nil {
		return domain.WorkNote{}, fmt.Errorf("get attachment: %w", err)
	}

	if !note.IsVisible && !ctxutil.IsAdminCtx(ctx) {
		return domain.WorkNote{}, fmt.Errorf("work_note %d: %w", id, domain.ErrNotFound)
	}
	return note, nil
}
