package activity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/observability"
)

type pendingEventsKey struct{}

// pendingEvents holds events raised inside a caller's transaction.
type pendingEvents struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

// DeferEvents returns a context under which writes queue their events
// instead of publishing them. The caller passes it to its transaction and
// calls PublishDeferred once the transaction committed; on rollback the
// context is dropped together with its queue.
func (s *Service) DeferEvents(ctx context.Context) context.Context {
	return context.WithValue(ctx, pendingEventsKey{}, &pendingEvents{})
}

// PublishDeferred publishes the events queued under ctx, in the order they
// were raised, and empties the queue.
func (s *Service) PublishDeferred(ctx context.Context) {
	q, ok := ctx.Value(pendingEventsKey{}).(*pendingEvents)
	if !ok {
		return
	}
	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()

	for _, e := range events {
		s.send(ctx, e)
	}
}

// publish stamps e and sends it, or queues it when ctx came from
// DeferEvents.
func (s *Service) publish(ctx context.Context, e domain.ActivityEvent) {
	e.OccurredAt = s.now()
	if q, ok := ctx.Value(pendingEventsKey{}).(*pendingEvents); ok {
		q.mu.Lock()
		q.events = append(q.events, e)
		q.mu.Unlock()
		return
	}
	s.send(ctx, e)
}

// send publishes e and only logs a failure.
func (s *Service) send(ctx context.Context, e domain.ActivityEvent) {
	err := s.events.Publish(ctx, e)
	observability.RecordEventPublished(e.Type, err)
	if err != nil {
		s.log.WarnContext(ctx, "publish activity event",
			slog.String("type", e.Type),
			slog.Int64("application_id", e.ApplicationID),
			slog.String("error", err.Error()),
		)
	}
}
