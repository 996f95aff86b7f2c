package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// TotalHandoverSections is the number of sections in the handover form.
// Completion is measured against this constant, not against stored data.
const TotalHandoverSections = 15

// HandoverDocument is a multi-section operational handover form.
type HandoverDocument struct {
	ID                   int64
	ApplicationID        *int64
	CreatedBy            int64
	CompletedSteps       []int
	CompletionPercentage float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HandoverField is one stored value of a handover document. Value holds
// either a scalar string or a JSON-encoded array of records.
type HandoverField struct {
	DocumentID  int64
	SectionName string
	FieldName   string
	Value       string
}

// HandoverParticipant is the relational projection of one element of the
// participants array.
type HandoverParticipant struct {
	DocumentID   int64
	Role         string
	Name         string
	Organization string
	ContactInfo  string
	Position     int
}

// HandoverDocumentDetail is a document with all of its stored data.
type HandoverDocumentDetail struct {
	Document     HandoverDocument
	Fields       []HandoverField
	Participants []HandoverParticipant
}

// CompletionPercentage returns filled/TotalHandoverSections*100 rounded to
// one decimal place.
func CompletionPercentage(filledSections int) float64 {
	if filledSections <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(filledSections)).
		Div(decimal.NewFromInt(TotalHandoverSections)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	return pct.InexactFloat64()
}

// ToggleStep adds or removes step from steps and returns a new ascending,
// de-duplicated slice. The input is not modified.
func ToggleStep(steps []int, step int, complete bool) []int {
	out := make([]int, 0, len(steps)+1)
	for _, s := range steps {
		if s == step && !complete {
			continue
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	if complete && !slices.Contains(out, step) {
		out = append(out, step)
	}
	slices.Sort(out)
	return out
}
