package domain

import (
	"cmp"
	"fmt"
	"time"
)

// ActivityType discriminates the two record kinds merged into the activity feed.
type ActivityType string

const (
	ActivityTypeWorkNote ActivityType = "work_note"
	ActivityTypeAuditLog ActivityType = "audit_log"
)

func (t ActivityType) String() string { return string(t) }

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeWorkNote, ActivityTypeAuditLog:
		return true
	}
	return false
}

// Priority of a work note.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// AuditAction is the kind of change recorded by an audit log entry.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

// AuditTableApplications is the audited table name for application-level entries.
const AuditTableApplications = "applications"

// FieldRelatedApplications is the application-relationship field. Its values
// are comma-separated application ids.
const FieldRelatedApplications = "related_applications"

// Attachment is an optional binary payload carried by a work note.
type Attachment struct {
	Data     []byte
	Filename string
	Size     int64
	MIMEType string
}

// WorkNote is a manually authored comment tied to an application.
type WorkNote struct {
	ID            int64
	ApplicationID int64
	UserID        int64
	UserName      string
	Note          string
	Type          string
	Priority      Priority
	Attachment    *Attachment
	IsVisible     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AuditLogEntry is an immutable before/after record of a single field change.
type AuditLogEntry struct {
	ID        int64
	TableName string
	RecordID  int64
	FieldName string
	OldValue  string
	NewValue  string
	ChangedBy int64
	UserName  string
	Action    AuditAction
	IsVisible bool
	ChangedAt time.Time
}

// Activity is the closed set of records that can appear in an activity feed.
// It is implemented by WorkNote and AuditLogEntry only.
type Activity interface {
	Project() ActivityItem
	isActivity()
}

func (WorkNote) isActivity()      {}
func (AuditLogEntry) isActivity() {}

// ActivityItem is the common read model of the activity feed.
type ActivityItem struct {
	ActivityType       ActivityType
	ID                 int64
	ApplicationID      int64
	UserID             int64
	UserName           string
	Content            string
	Type               string
	Priority           Priority
	HasAttachment      bool
	AttachmentFilename string
	AttachmentSize     int64
	AttachmentMIMEType string
	CreatedAt          time.Time
	IsVisible          bool
}

// Project converts the work note into a feed item.
func (n WorkNote) Project() ActivityItem {
	item := ActivityItem{
		ActivityType:  ActivityTypeWorkNote,
		ID:            n.ID,
		ApplicationID: n.ApplicationID,
		UserID:        n.UserID,
		UserName:      n.UserName,
		Content:       n.Note,
		Type:          n.Type,
		Priority:      n.Priority,
		CreatedAt:     n.CreatedAt,
		IsVisible:     n.IsVisible,
	}
	if n.Attachment != nil {
		item.HasAttachment = true
		item.AttachmentFilename = n.Attachment.Filename
		item.AttachmentSize = n.Attachment.Size
		item.AttachmentMIMEType = n.Attachment.MIMEType
	}
	return item
}

// Project converts the audit entry into a feed item. Content is rendered from
// the stored old/new values; callers that resolve ids to names substitute the
// values before projecting.
func (e AuditLogEntry) Project() ActivityItem {
	return ActivityItem{
		ActivityType:  ActivityTypeAuditLog,
		ID:            e.ID,
		ApplicationID: e.RecordID,
		UserID:        e.ChangedBy,
		UserName:      e.UserName,
		Content:       RenderFieldChange(e.FieldName, e.OldValue, e.NewValue),
		Type:          string(e.Action),
		CreatedAt:     e.ChangedAt,
		IsVisible:     e.IsVisible,
	}
}

// RenderFieldChange produces the human-readable description of a field change.
func RenderFieldChange(field, oldValue, newValue string) string {
	switch {
	case oldValue == "":
		return fmt.Sprintf("%s set to: %s", field, newValue)
	case newValue == "":
		return fmt.Sprintf("%s cleared (was: %s)", field, oldValue)
	default:
		return fmt.Sprintf(`%s changed from "%s" to "%s"`, field, oldValue, newValue)
	}
}

// CompareActivityItems orders items most recent first. Equal timestamps fall
// back to id descending, then work notes before audit entries.
func CompareActivityItems(a, b ActivityItem) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(b.ID, a.ID); c != 0 {
		return c
	}
	return cmp.Compare(activityTypeRank(a.ActivityType), activityTypeRank(b.ActivityType))
}

func activityTypeRank(t ActivityType) int {
	if t == ActivityTypeWorkNote {
		return 0
	}
	return 1
}

// ActivityFilter narrows the activity feed.
type ActivityFilter struct {
	WorkNotesOnly bool
	ShowHidden    bool
	UserID        *int64
	FromDate      *time.Time
}

// Page selects a window of an in-memory result. Limit <= 0 means no limit.
type Page struct {
	Limit  int
	Offset int
}

// Paginate applies the page window to items.
func Paginate[T any](items []T, p Page) []T {
	offset := max(p.Offset, 0)
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// Event types emitted after activity writes.
const (
	EventWorkNoteAdded = "work_note.added"
	EventFieldChanged  = "field.changed"
	EventVisibilitySet = "activity.visibility_changed"
)

// ActivityEvent notifies downstream consumers about a committed activity write.
type ActivityEvent struct {
	Type          string    `json:"type"`
	ApplicationID int64     `json:"application_id"`
	ActivityID    int64     `json:"activity_id"`
	UserID        int64     `json:"user_id"`
	FieldName     string    `json:"field_name,omitempty"`
	OldValue      string    `json:"old_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Visible       *bool     `json:"visible,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
