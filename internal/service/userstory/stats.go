package userstory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// Stats aggregates story counters, optionally for one application.
func (s *Service) Stats(ctx context.Context, applicationID *int64) (domain.UserStoryStats, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.UserStoryStats{}, domain.ErrUnauthorized
	}

	buckets, err := s.stories.Aggregate(ctx, applicationID)
	if err != nil {
		return domain.UserStoryStats{}, fmt.Errorf("aggregate user stories: %w", err)
	}
	return computeStats(buckets), nil
}

func computeStats(buckets []domain.UserStoryAggregate) domain.UserStoryStats {
	stats := domain.UserStoryStats{
		ByStatus:   make(map[domain.StoryStatus]int, len(domain.StoryStatuses)),
		ByPriority: make(map[domain.StoryPriority]int, len(domain.StoryPriorities)),
	}
	for _, st := range domain.StoryStatuses {
		stats.ByStatus[st] = 0
	}
	for _, p := range domain.StoryPriorities {
		stats.ByPriority[p] = 0
	}

	done := 0
	for _, b := range buckets {
		stats.Total += b.Count
		stats.ByStatus[b.Status] += b.Count
		stats.ByPriority[b.Priority] += b.Count
		stats.TotalPoints += b.Points
		if b.Status == domain.StoryStatusDone {
			done += b.Count
			stats.CompletedPoints += b.Points
		}
	}

	if stats.Total > 0 {
		stats.CompletionPercentage = decimal.NewFromInt(int64(done)).
			Div(decimal.NewFromInt(int64(stats.Total))).
			Mul(decimal.NewFromInt(100)).
			Round(1).
			InexactFloat64()
	}
	return stats
}
