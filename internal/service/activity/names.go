package activity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/observability"
)

// resolveRelationships replaces the id lists of related_applications entries
// with application names. Any side that cannot be fully resolved keeps its
// raw value.
func (s *Service) resolveRelationships(ctx context.Context, entries []domain.AuditLogEntry) []domain.AuditLogEntry {
	var ids []int64
	for _, e := range entries {
		if e.FieldName != domain.FieldRelatedApplications {
			continue
		}
		for _, v := range []string{e.OldValue, e.NewValue} {
			parsed, err := domain.ParseIDList(v)
			if err == nil {
				ids = append(ids, parsed...)
			}
		}
	}
	if len(ids) == 0 {
		return entries
	}

	names, err := s.names.ResolveNames(ctx, ids)
	if err != nil {
		observability.RecordNameFallback()
		s.log.WarnContext(ctx, "resolve application names",
			slog.Int("ids", len(ids)),
			slog.String("error", err.Error()),
		)
		return entries
	}

	out := make([]domain.AuditLogEntry, len(entries))
	for i, e := range entries {
		if e.FieldName == domain.FieldRelatedApplications {
			e.OldValue = substituteNames(e.OldValue, names)
			e.NewValue = substituteNames(e.NewValue, names)
		}
		out[i] = e
	}
	return out
}

func substituteNames(raw string, names map[int64]string) string {
	ids, err := domain.ParseIDList(raw)
	if err != nil || len(ids) == 0 {
		return raw
	}

	resolved := make([]string, len(ids))
	for i, id := range ids {
		name, ok := names[id]
		if !ok {
			observability.RecordNameFallback()
			return raw
		}
		resolved[i] = name
	}
	return strings.Join(resolved, ", ")
}
