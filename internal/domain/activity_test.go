package domain

import (
	"slices"
	"testing"
	"time"
)

func TestRenderFieldChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		field    string
		old, new string
		want     string
	}{
		{"changed", "status", "Draft", "Active", `status changed from "Draft" to "Active"`},
		{"set", "status", "", "5", "status set to: 5"},
		{"cleared", "status", "5", "", "status cleared (was: 5)"},
		{"quotes kept verbatim", "name", `a"b`, "c", `name changed from "a"b" to "c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderFieldChange(tt.field, tt.old, tt.new); got != tt.want {
				t.Errorf("RenderFieldChange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkNote_Project(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	n := WorkNote{
		ID: 7, ApplicationID: 3, UserID: 2, UserName: "alice",
		Note: "deployed", Type: "deployment", Priority: PriorityHigh,
		Attachment: &Attachment{Filename: "log.txt", Size: 12, MIMEType: "text/plain"},
		IsVisible:  true, CreatedAt: now,
	}

	item := n.Project()

	if item.ActivityType != ActivityTypeWorkNote {
		t.Errorf("ActivityType = %q", item.ActivityType)
	}
	if item.Content != "deployed" || item.Priority != PriorityHigh {
		t.Errorf("unexpected content/priority: %+v", item)
	}
	if !item.HasAttachment || item.AttachmentFilename != "log.txt" || item.AttachmentSize != 12 {
		t.Errorf("attachment metadata not projected: %+v", item)
	}
	if !item.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v", item.CreatedAt)
	}
}

func TestAuditLogEntry_Project(t *testing.T) {
	t.Parallel()

	e := AuditLogEntry{
		ID: 4, TableName: AuditTableApplications, RecordID: 3,
		FieldName: "status", OldValue: "Draft", NewValue: "Active",
		ChangedBy: 1, UserName: "bob", Action: AuditActionUpdate,
	}

	item := e.Project()

	if item.ActivityType != ActivityTypeAuditLog {
		t.Errorf("ActivityType = %q", item.ActivityType)
	}
	if item.ApplicationID != 3 || item.UserID != 1 {
		t.Errorf("unexpected ids: %+v", item)
	}
	if item.Content != `status changed from "Draft" to "Active"` {
		t.Errorf("Content = %q", item.Content)
	}
	if item.Type != "update" || item.HasAttachment {
		t.Errorf("unexpected type/attachment: %+v", item)
	}
}

func TestCompareActivityItems(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []ActivityItem{
		{ActivityType: ActivityTypeAuditLog, ID: 5, CreatedAt: t0},
		{ActivityType: ActivityTypeWorkNote, ID: 1, CreatedAt: t0.Add(time.Hour)},
		{ActivityType: ActivityTypeWorkNote, ID: 5, CreatedAt: t0},
		{ActivityType: ActivityTypeAuditLog, ID: 9, CreatedAt: t0},
		{ActivityType: ActivityTypeAuditLog, ID: 2, CreatedAt: t0.Add(-time.Hour)},
	}

	slices.SortFunc(items, CompareActivityItems)

	type key struct {
		typ ActivityType
		id  int64
	}
	want := []key{
		{ActivityTypeWorkNote, 1},
		{ActivityTypeAuditLog, 9},
		{ActivityTypeWorkNote, 5},
		{ActivityTypeAuditLog, 5},
		{ActivityTypeAuditLog, 2},
	}
	for i, w := range want {
		if items[i].ActivityType != w.typ || items[i].ID != w.id {
			t.Fatalf("position %d = (%s, %d), want (%s, %d)", i, items[i].ActivityType, items[i].ID, w.typ, w.id)
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].CreatedAt.Before(items[i].CreatedAt) {
			t.Fatalf("items not sorted descending at %d", i)
		}
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		page Page
		want []int
	}{
		{"no limit", Page{}, []int{1, 2, 3, 4, 5}},
		{"limit", Page{Limit: 2}, []int{1, 2}},
		{"offset", Page{Offset: 3}, []int{4, 5}},
		{"limit and offset", Page{Limit: 2, Offset: 1}, []int{2, 3}},
		{"offset past end", Page{Offset: 10}, []int{}},
		{"limit past end", Page{Limit: 10, Offset: 4}, []int{5}},
		{"negative offset", Page{Offset: -1, Limit: 1}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Paginate(items, tt.page)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Paginate() = %v, want %v", got, tt.want)
			}
		})
	}
}
