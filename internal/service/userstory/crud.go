package userstory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// Create stores a new story owned by the caller.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.UserStory, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.UserStory{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.UserStory{}, err
	}

	var story domain.UserStory
	err := s.inTx(ctx, func(txCtx context.Context) error {
		var err error
		story, err = s.stories.Create(txCtx, input.toStory(userID))
		if err != nil {
			return fmt.Errorf("create user story: %w", err)
		}

		if story.ApplicationID != nil {
			if _, err := s.changes.LogFieldChange(txCtx, *story.ApplicationID, storyField(story.ID), "", story.Title, domain.AuditActionCreate); err != nil {
				return fmt.Errorf("log story creation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.UserStory{}, err
	}

	s.log.InfoContext(ctx, "user story created",
		slog.Int64("user_id", userID),
		slog.Int64("story_id", story.ID),
	)
	return story, nil
}

// Get returns one story.
func (s *Service) Get(ctx context.Context, id int64) (domain.UserStory, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.UserStory{}, domain.ErrUnauthorized
	}

	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return domain.UserStory{}, fmt.Errorf("get user story: %w", err)
	}
	return story, nil
}

// List returns stories matching the filter. The limit is clamped to
// [1, MaxListLimit] and defaults to DefaultListLimit.
func (s *Service) List(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	f.Offset = max(f.Offset, 0)

	stories, err := s.stories.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list user stories: %w", err)
	}
	return stories, nil
}

// Update applies a partial update. Changes to title, status, priority and
// story points of a story tied to an application are logged to its feed.
func (s *Service) Update(ctx context.Context, input UpdateInput) (domain.UserStory, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.UserStory{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.UserStory{}, err
	}

	var updated domain.UserStory
	err := s.inTx(ctx, func(txCtx context.Context) error {
		current, err := s.stories.GetByIDForUpdate(txCtx, input.ID)
		if err != nil {
			return fmt.Errorf("get user story: %w", err)
		}
		if err := canModify(txCtx, userID, current); err != nil {
			return err
		}

		updated, err = s.stories.Update(txCtx, input.apply(current))
		if err != nil {
			return fmt.Errorf("update user story: %w", err)
		}

		if current.ApplicationID == nil {
			return nil
		}
		for _, c := range trackedChanges(current, updated) {
			field := storyField(current.ID) + "." + c.field
			if _, err := s.changes.LogFieldChange(txCtx, *current.ApplicationID, field, c.old, c.new, domain.AuditActionUpdate); err != nil {
				return fmt.Errorf("log %s change: %w", c.field, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.UserStory{}, err
	}

	s.log.InfoContext(ctx, "user story updated",
		slog.Int64("user_id", userID),
		slog.Int64("story_id", updated.ID),
	)
	return updated, nil
}

// Delete removes a story.
func (s *Service) Delete(ctx context.Context, id int64) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.inTx(ctx, func(txCtx context.Context) error {
		current, err := s.stories.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("get user story: %w", err)
		}
		if err := canModify(txCtx, userID, current); err != nil {
			return err
		}

		if err := s.stories.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete user story: %w", err)
		}

		if current.ApplicationID != nil {
			if _, err := s.changes.LogFieldChange(txCtx, *current.ApplicationID, storyField(id), current.Title, "", domain.AuditActionDelete); err != nil {
				return fmt.Errorf("log story deletion: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user story deleted",
		slog.Int64("user_id", userID),
		slog.Int64("story_id", id),
	)
	return nil
}

type fieldChange struct {
	field, old, new string
}

func trackedChanges(before, after domain.UserStory) []fieldChange {
	candidates := []fieldChange{
		{"title", before.Title, after.Title},
		{"status", before.Status.String(), after.Status.String()},
		{"priority", before.Priority.String(), after.Priority.String()},
		{"story_points", pointsString(before.StoryPoints), pointsString(after.StoryPoints)},
	}

	var out []fieldChange
	for _, c := range candidates {
		if c.old != c.new {
			out = append(out, c)
		}
	}
	return out
}

func pointsString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
