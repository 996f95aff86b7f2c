package handover

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/observability"
)

// SaveSection replaces the posted fields of one section and recomputes the
// document's completion percentage. Blank values delete their field.
func (s *Service) SaveSection(ctx context.Context, input SaveSectionInput) (SaveSectionResult, error) {
	if err := input.Validate(); err != nil {
		return SaveSectionResult{}, err
	}

	section, _ := Section(input.SectionName)

	var result SaveSectionResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docs.GetDocument(txCtx, input.DocumentID)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if err := s.authorize(txCtx, doc); err != nil {
			return err
		}

		saved := make([]string, 0, len(input.Fields))
		for _, name := range slices.Sorted(maps.Keys(input.Fields)) {
			spec, _ := section.Field(name)
			stored, err := s.saveField(txCtx, doc.ID, section.Name, spec, input.Fields[name])
			if err != nil {
				return err
			}
			if stored {
				saved = append(saved, name)
			}
		}

		filled, err := s.docs.CountFilledSections(txCtx, doc.ID)
		if err != nil {
			return fmt.Errorf("count filled sections: %w", err)
		}
		pct := domain.CompletionPercentage(filled)
		if err := s.docs.UpdateCompletion(txCtx, doc.ID, pct); err != nil {
			return fmt.Errorf("update completion: %w", err)
		}

		result = SaveSectionResult{
			SavedFields:          saved,
			CompletionPercentage: pct,
			CompletedSteps:       doc.CompletedSteps,
		}
		return nil
	})
	if err != nil {
		return SaveSectionResult{}, err
	}

	if result.CompletedSteps == nil {
		result.CompletedSteps = []int{}
	}

	observability.RecordSectionSaved(section.Name)
	s.log.InfoContext(ctx, "handover section saved",
		slog.Int64("document_id", input.DocumentID),
		slog.String("section", section.Name),
		slog.Int("saved_fields", len(result.SavedFields)),
		slog.Float64("completion", result.CompletionPercentage),
	)

	return result, nil
}

// saveField writes or deletes one field and reports whether a value was
// stored.
func (s *Service) saveField(ctx context.Context, documentID int64, section string, spec FieldSpec, v FieldValue) (bool, error) {
	var value string

	switch {
	case section == SectionParticipants && spec.Name == FieldParticipants:
		participants := normalizeParticipants(documentID, v.Records)
		if err := s.docs.ReplaceParticipants(ctx, documentID, participants); err != nil {
			return false, fmt.Errorf("replace participants: %w", err)
		}
		if len(participants) == 0 {
			return false, s.deleteField(ctx, documentID, section, spec.Name)
		}
		encoded, err := encodeRecords(participantRecords(participants))
		if err != nil {
			return false, err
		}
		value = encoded

	case spec.Kind == KindRecords:
		kept := normalizeRecords(spec, v.Records)
		if len(kept) == 0 {
			return false, s.deleteField(ctx, documentID, section, spec.Name)
		}
		encoded, err := encodeRecords(kept)
		if err != nil {
			return false, err
		}
		value = encoded

	default:
		scalar, ok := normalizeScalar(v.Scalar)
		if !ok {
			return false, s.deleteField(ctx, documentID, section, spec.Name)
		}
		value = scalar
	}

	err := s.docs.UpsertField(ctx, domain.HandoverField{
		DocumentID:  documentID,
		SectionName: section,
		FieldName:   spec.Name,
		Value:       value,
	})
	if err != nil {
		return false, fmt.Errorf("upsert field %s.%s: %w", section, spec.Name, err)
	}
	return true, nil
}

func (s *Service) deleteField(ctx context.Context, documentID int64, section, field string) error {
	if err := s.docs.DeleteField(ctx, documentID, section, field); err != nil {
		return fmt.Errorf("delete field %s.%s: %w", section, field, err)
	}
	return nil
}
