package handover

import (
	"fmt"
	"maps"
	"slices"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// FieldValue is a posted field: either a scalar or a list of records.
type FieldValue struct {
	Scalar    string
	Records   []map[string]string
	IsRecords bool
}

// ScalarValue builds a scalar FieldValue.
func ScalarValue(s string) FieldValue {
	return FieldValue{Scalar: s}
}

// RecordsValue builds a records FieldValue.
func RecordsValue(records []map[string]string) FieldValue {
	return FieldValue{Records: records, IsRecords: true}
}

// SaveSectionInput holds the parameters for saving one form section.
type SaveSectionInput struct {
	DocumentID  int64
	SectionName string
	Fields      map[string]FieldValue
}

// Validate checks the input against the section schema.
func (i SaveSectionInput) Validate() error {
	var errs []domain.FieldError

	if i.DocumentID <= 0 {
		errs = append(errs, domain.FieldError{Field: "document_id", Message: "required"})
	}

	section, ok := Section(i.SectionName)
	if !ok {
		errs = append(errs, domain.FieldError{Field: "section_name", Message: fmt.Sprintf("unknown section %q", i.SectionName)})
		return &domain.ValidationError{Errors: errs}
	}

	if len(i.Fields) == 0 {
		errs = append(errs, domain.FieldError{Field: "fields", Message: "required"})
	}

	for _, name := range slices.Sorted(maps.Keys(i.Fields)) {
		v := i.Fields[name]
		spec, ok := section.Field(name)
		if !ok {
			errs = append(errs, domain.FieldError{Field: name, Message: "unknown field"})
			continue
		}
		if v.IsRecords != (spec.Kind == KindRecords) {
			errs = append(errs, domain.FieldError{Field: name, Message: "expected " + spec.Kind.String()})
			continue
		}
		for idx, rec := range v.Records {
			for sub := range rec {
				if !slices.Contains(spec.SubFields, sub) {
					errs = append(errs, domain.FieldError{
						Field:   fmt.Sprintf("%s[%d][%s]", name, idx, sub),
						Message: "unknown field",
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SaveSectionResult is the outcome of a section save.
type SaveSectionResult struct {
	SavedFields          []string
	CompletionPercentage float64
	CompletedSteps       []int
}

// ToggleStepInput holds the parameters for marking a step complete or not.
type ToggleStepInput struct {
	DocumentID int64
	StepNumber int
	Complete   bool
}

// Validate checks all fields and collects all errors.
func (i ToggleStepInput) Validate() error {
	var errs []domain.FieldError

	if i.DocumentID <= 0 {
		errs = append(errs, domain.FieldError{Field: "document_id", Message: "required"})
	}
	if i.StepNumber < 1 || i.StepNumber > domain.TotalHandoverSections {
		errs = append(errs, domain.FieldError{
			Field:   "step_number",
			Message: fmt.Sprintf("must be between 1 and %d", domain.TotalHandoverSections),
		})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateDocumentInput holds the parameters for creating a document.
type CreateDocumentInput struct {
	ApplicationID *int64
}
