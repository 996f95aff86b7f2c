package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// Get returns one application.
func (s *Service) Get(ctx context.Context, id int64) (domain.Application, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.Application{}, domain.ErrUnauthorized
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return domain.Application{}, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// List returns applications ordered by name.
func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Application, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	apps, err := s.apps.List(ctx, limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Create stores a new application owned by the caller and logs its name as
// the first entry of its activity feed.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Application, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Application{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Application{}, err
	}

	var app domain.Application
	err := s.inTx(ctx, func(txCtx context.Context) error {
		var err error
		app, err = s.apps.Create(txCtx, input.toApplication(userID))
		if err != nil {
			return fmt.Errorf("create application: %w", err)
		}
		if _, err := s.changes.LogFieldChange(txCtx, app.ID, "name", "", app.Name, domain.AuditActionCreate); err != nil {
			return fmt.Errorf("log application creation: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Application{}, err
	}

	s.log.InfoContext(ctx, "application created",
		slog.Int64("user_id", userID),
		slog.Int64("application_id", app.ID),
	)
	return app, nil
}

// Update applies a partial update and logs one audit entry per changed field.
func (s *Service) Update(ctx context.Context, input UpdateInput) (domain.Application, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Application{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Application{}, err
	}

	var (
		updated domain.Application
		changed int
	)
	err := s.inTx(ctx, func(txCtx context.Context) error {
		current, err := s.apps.GetByIDForUpdate(txCtx, input.ID)
		if err != nil {
			return fmt.Errorf("get application: %w", err)
		}

		next := applyParams(current, input.params())
		diff := diffApplications(current, next)
		if len(diff) == 0 {
			updated = current
			return nil
		}

		updated, err = s.apps.Update(txCtx, next)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		for _, c := range diff {
			logged, err := s.changes.LogFieldChange(txCtx, current.ID, c.field, c.old, c.new, domain.AuditActionUpdate)
			if err != nil {
				return fmt.Errorf("log %s change: %w", c.field, err)
			}
			if logged {
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return domain.Application{}, err
	}

	if changed > 0 {
		s.invalidateName(ctx, updated.ID)
	}

	s.log.InfoContext(ctx, "application updated",
		slog.Int64("user_id", userID),
		slog.Int64("application_id", updated.ID),
		slog.Int("changed_fields", changed),
	)
	return updated, nil
}

func (s *Service) invalidateName(ctx context.Context, id int64) {
	if s.names == nil {
		return
	}
	if err := s.names.Invalidate(ctx, id); err != nil {
		s.log.WarnContext(ctx, "invalidate cached application name",
			slog.Int64("application_id", id),
			slog.String("error", err.Error()),
		)
	}
}

type fieldChange struct {
	field, old, new string
}

func applyParams(app domain.Application, p domain.ApplicationUpdateParams) domain.Application {
	if p.Name != nil {
		app.Name = *p.Name
	}
	if p.ShortName != nil {
		app.ShortName = *p.ShortName
	}
	if p.Status != nil {
		app.Status = *p.Status
	}
	if p.Description != nil {
		app.Description = *p.Description
	}
	if p.RelatedApplications != nil {
		app.RelatedApplications = normalizeIDs(*p.RelatedApplications)
	}
	return app
}

// diffApplications lists the audited fields that differ between two
// versions, in a fixed order.
func diffApplications(before, after domain.Application) []fieldChange {
	candidates := []fieldChange{
		{"name", before.Name, after.Name},
		{"short_name", before.ShortName, after.ShortName},
		{"status", before.Status.String(), after.Status.String()},
		{"description", before.Description, after.Description},
		{domain.FieldRelatedApplications, domain.FormatIDList(before.RelatedApplications), domain.FormatIDList(after.RelatedApplications)},
	}

	var out []fieldChange
	for _, c := range candidates {
		if c.old != c.new {
			out = append(out, c)
		}
	}
	return out
}
