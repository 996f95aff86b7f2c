package handover

import (
	"slices"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// FieldKind is the shape of a handover field value.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindRecords
)

func (k FieldKind) String() string {
	if k == KindRecords {
		return "records"
	}
	return "scalar"
}

// FieldSpec describes one field of a section. SubFields is set for
// KindRecords only.
type FieldSpec struct {
	Name      string
	Kind      FieldKind
	SubFields []string
}

// SectionSpec describes one section of the handover form.
type SectionSpec struct {
	Name   string
	Fields []FieldSpec
}

// Field returns the spec of the named field.
func (s SectionSpec) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

const (
	SectionParticipants = "participants"
	FieldParticipants   = "participants"
	SectionContacts     = "contacts"
	FieldContacts       = "contacts"

	customRole = "custom"
)

func scalars(names ...string) []FieldSpec {
	out := make([]FieldSpec, len(names))
	for i, n := range names {
		out[i] = FieldSpec{Name: n, Kind: KindScalar}
	}
	return out
}

func records(name string, subFields ...string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindRecords, SubFields: subFields}
}

// Schema lists the sections of the handover form in step order. Step n
// corresponds to Schema[n-1].
var Schema = []SectionSpec{
	{Name: "general_info", Fields: scalars("application_name", "handover_date", "handover_type", "summary")},
	{Name: SectionParticipants, Fields: []FieldSpec{
		records(FieldParticipants, "role", "name", "organization", "contact_info"),
	}},
	{Name: SectionContacts, Fields: []FieldSpec{
		records(FieldContacts, "role", "custom_role", "name", "email", "phone", "organization"),
	}},
	{Name: "system_overview", Fields: scalars("purpose", "architecture", "technology_stack", "hosting", "user_base")},
	{Name: "environments", Fields: []FieldSpec{
		records("environments", "name", "url", "purpose", "notes"),
	}},
	{Name: "documentation", Fields: []FieldSpec{
		records("documents", "title", "location", "description"),
	}},
	{Name: "access_management", Fields: append(scalars("access_procedure"),
		records("accounts", "system", "account", "owner", "notes"),
	)},
	{Name: "operations", Fields: scalars("monitoring", "backup_procedure", "maintenance_windows", "batch_jobs")},
	{Name: "support", Fields: scalars("support_model", "service_hours", "sla", "escalation_path")},
	{Name: "known_issues", Fields: []FieldSpec{
		records("issues", "title", "description", "workaround"),
	}},
	{Name: "risks", Fields: []FieldSpec{
		records("risks", "description", "impact", "likelihood", "mitigation"),
	}},
	{Name: "dependencies", Fields: []FieldSpec{
		records("dependencies", "name", "type", "description"),
	}},
	{Name: "training", Fields: append(scalars("training_plan"),
		records("sessions", "topic", "date", "trainer", "attendees"),
	)},
	{Name: "open_items", Fields: []FieldSpec{
		records("open_items", "description", "owner", "due_date", "status"),
	}},
	{Name: "signatures", Fields: append(scalars("acceptance_notes"),
		records("signatures", "role", "name", "date"),
	)},
}

func init() {
	if len(Schema) != domain.TotalHandoverSections {
		panic("handover: schema section count does not match TotalHandoverSections")
	}
}

// Section returns the spec of the named section.
func Section(name string) (SectionSpec, bool) {
	i := slices.IndexFunc(Schema, func(s SectionSpec) bool { return s.Name == name })
	if i < 0 {
		return SectionSpec{}, false
	}
	return Schema[i], true
}
