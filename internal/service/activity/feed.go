package activity

import (
	"context"
	"fmt"
	"io"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/export"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// GetActivityFeed returns one page of the merged activity of an application,
// most recent first.
func (s *Service) GetActivityFeed(ctx context.Context, applicationID int64, f domain.ActivityFilter, page domain.Page) ([]domain.ActivityItem, error) {
	items, err := s.feed(ctx, applicationID, s.effectiveFilter(ctx, f))
	if err != nil {
		return nil, err
	}
	return domain.Paginate(items, page), nil
}

// GetActivityPage returns one page of the feed together with the size of the
// unpaginated feed. Both come from the same read, so the total always agrees
// with the items.
func (s *Service) GetActivityPage(ctx context.Context, applicationID int64, f domain.ActivityFilter, page domain.Page) ([]domain.ActivityItem, int, error) {
	items, err := s.feed(ctx, applicationID, s.effectiveFilter(ctx, f))
	if err != nil {
		return nil, 0, err
	}
	return domain.Paginate(items, page), len(items), nil
}

// GetActivityCount returns the number of items the unpaginated feed would
// contain for the same filter.
func (s *Service) GetActivityCount(ctx context.Context, applicationID int64, f domain.ActivityFilter) (int, error) {
	f = s.effectiveFilter(ctx, f)

	var notes, audits int
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		notes, err = s.notes.CountByApplication(gctx, applicationID, f)
		if err != nil {
			return fmt.Errorf("count work notes: %w", err)
		}
		return nil
	})

	if !f.WorkNotesOnly {
		g.Go(func() error {
			var err error
			audits, err = s.audit.CountByRecord(gctx, domain.AuditTableApplications, applicationID, f)
			if err != nil {
				return fmt.Errorf("count audit entries: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return notes + audits, nil
}

// ExportActivityFeed writes the whole filtered feed to w as an XLSX workbook.
func (s *Service) ExportActivityFeed(ctx context.Context, applicationID int64, f domain.ActivityFilter, w io.Writer) error {
	items, err := s.feed(ctx, applicationID, s.effectiveFilter(ctx, f))
	if err != nil {
		return err
	}
	if err := export.WriteActivityXLSX(w, items); err != nil {
		return fmt.Errorf("export activity: %w", err)
	}
	return nil
}

// effectiveFilter drops ShowHidden for non-admin callers.
func (s *Service) effectiveFilter(ctx context.Context, f domain.ActivityFilter) domain.ActivityFilter {
	if f.ShowHidden && !ctxutil.IsAdminCtx(ctx) {
		f.ShowHidden = false
	}
	return f
}

func (s *Service) feed(ctx context.Context, applicationID int64, f domain.ActivityFilter) ([]domain.ActivityItem, error) {
	var (
		notes   []domain.WorkNote
		entries []domain.AuditLogEntry
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		notes, err = s.notes.ListByApplication(gctx, applicationID, f)
		if err != nil {
			return fmt.Errorf("list work notes: %w", err)
		}
		return nil
	})

	if !f.WorkNotesOnly {
		g.Go(func() error {
			var err error
			entries, err = s.audit.ListByRecord(gctx, domain.AuditTableApplications, applicationID, f)
			if err != nil {
				return fmt.Errorf("list audit entries: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	entries = s.resolveRelationships(ctx, entries)

	activities := make([]domain.Activity, 0, len(notes)+len(entries))
	for _, n := range notes {
		activities = append(activities, n)
	}
	for _, e := range entries {
		activities = append(activities, e)
	}

	items := make([]domain.ActivityItem, len(activities))
	for i, a := range activities {
		items[i] = a.Project()
	}
	slices.SortFunc(items, domain.CompareActivityItems)

	return items, nil
}
