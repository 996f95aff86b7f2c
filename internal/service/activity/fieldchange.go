package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/observability"
	"github.com/heartmarshall/apptracker/pkg/ctxutil"
)

// LogFieldChange records that field of an application changed from oldValue
// to newValue. Equal values write nothing and report false.
func (s *Service) LogFieldChange(ctx context.Context, applicationID int64, field, oldValue, newValue string, action domain.AuditAction) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	if oldValue == newValue {
		return false, nil
	}

	if field == "" {
		return false, domain.NewValidationError("field_name", "required")
	}
	if !action.IsValid() {
		return false, domain.NewValidationError("action", "must be create, update or delete")
	}

	entry, err := s.audit.Create(ctx, domain.AuditLogEntry{
		TableName: domain.AuditTableApplications,
		RecordID:  applicationID,
		FieldName: field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: userID,
		Action:    action,
	})
	if err != nil {
		return false, fmt.Errorf("create audit entry: %w", err)
	}

	observability.RecordAuditEntry(action.String())
	s.log.DebugContext(ctx, "field change logged",
		slog.Int64("application_id", applicationID),
		slog.String("field", field),
		slog.Int64("audit_id", entry.ID),
	)

	s.publish(ctx, domain.ActivityEvent{
		Type:          domain.EventFieldChanged,
		ApplicationID: applicationID,
		ActivityID:    entry.ID,
		UserID:        userID,
		FieldName:     field,
		OldValue:      oldValue,
		NewValue:      newValue,
	})

	return true, nil
}
