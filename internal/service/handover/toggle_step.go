package handover

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// ToggleStep marks a form step complete or incomplete and returns the
// sorted set of completed steps. Field data is not touched.
func (s *Service) ToggleStep(ctx context.Context, input ToggleStepInput) ([]int, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, fmt.Sprintf("apptracker:handover:%d:steps", input.DocumentID))
		if err != nil {
			return nil, fmt.Errorf("lock document steps: %w", err)
		}
		defer release()
	}

	var steps []int
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docs.GetDocumentForUpdate(txCtx, input.DocumentID)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if err := s.authorize(txCtx, doc); err != nil {
			return err
		}

		steps = domain.ToggleStep(doc.CompletedSteps, input.StepNumber, input.Complete)
		if err := s.docs.UpdateCompletedSteps(txCtx, doc.ID, steps); err != nil {
			return fmt.Errorf("update completed steps: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "handover step toggled",
		slog.Int64("document_id", input.DocumentID),
		slog.Int("step", input.StepNumber),
		slog.Bool("complete", input.Complete),
	)

	return steps, nil
}
