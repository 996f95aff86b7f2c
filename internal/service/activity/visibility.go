package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// HideActivity hides a work note from the default feed.
func (s *Service) HideActivity(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error) {
	return s.setVisibility(ctx, activityType, id, false)
}

// ShowActivity makes a hidden work note visible again.
func (s *Service) ShowActivity(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error) {
	return s.setVisibility(ctx, activityType, id, true)
}

// setVisibility reports false without an error when the caller is not an
// admin or the activity is not a work note.
func (s *Service) setVisibility(ctx context.Context, activityType domain.ActivityType, id int64, visible bool) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	if !ctxutil.IsAdminCtx(ctx) || activityType != domain.ActivityTypeWorkNote {
		s.log.InfoContext(ctx, "visibility change refused",
			slog.Int64("user_id", userID),
			slog.String("activity_type", activityType.String()),
			slog.Int64("id", id),
		)
		return false, nil
	}

	if err := s.notes.SetVisibility(ctx, id, visible); err != nil {
		return false, fmt.Errorf("set work note visibility: %w", err)
	}

	s.log.InfoContext(ctx, "work note visibility changed",
		slog.Int64("user_id", userID),
		slog.Int64("work_note_id", id),
		slog.Bool("visible", visible),
	)

	s.publish(ctx, domain.ActivityEvent{
		Type:       domain.EventVisibilitySet,
		ActivityID: id,
		UserID:     userID,
		Visible:    &visible,
	})

	return true, nil
}
