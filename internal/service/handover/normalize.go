package handover

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// normalizeScalar reports whether v is stored. Only the empty string is
// dropped; "0" and whitespace are kept as sent.
func normalizeScalar(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	return v, true
}

// normalizeParticipants keeps participants with a role or a name.
func normalizeParticipants(documentID int64, recs []map[string]string) []domain.HandoverParticipant {
	out := make([]domain.HandoverParticipant, 0, len(recs))
	for _, r := range recs {
		role := strings.TrimSpace(r["role"])
		name := strings.TrimSpace(r["name"])
		if role == "" && name == "" {
			continue
		}
		out = append(out, domain.HandoverParticipant{
			DocumentID:   documentID,
			Role:         role,
			Name:         name,
			Organization: strings.TrimSpace(r["organization"]),
			ContactInfo:  strings.TrimSpace(r["contact_info"]),
			Position:     len(out),
		})
	}
	return out
}

// participantRecords is the JSON mirror of the participant rows.
func participantRecords(ps []domain.HandoverParticipant) []map[string]string {
	out := make([]map[string]string, len(ps))
	for i, p := range ps {
		out[i] = map[string]string{
			"role":         p.Role,
			"name":         p.Name,
			"organization": p.Organization,
			"contact_info": p.ContactInfo,
		}
	}
	return out
}

// normalizeRecords keeps records with at least one non-blank value, restricted
// to the schema sub-fields. Contacts with the custom role take their role
// from custom_role.
func normalizeRecords(spec FieldSpec, recs []map[string]string) []map[string]string {
	out := make([]map[string]string, 0, len(recs))
	for _, r := range recs {
		kept := make(map[string]string, len(spec.SubFields))
		filled := false
		for _, sub := range spec.SubFields {
			v := strings.TrimSpace(r[sub])
			kept[sub] = v
			if v != "" {
				filled = true
			}
		}
		if !filled {
			continue
		}
		if spec.Name == FieldContacts && kept["role"] == customRole {
			kept["role"] = kept["custom_role"]
		}
		out = append(out, kept)
	}
	return out
}

func encodeRecords(recs []map[string]string) (string, error) {
	b, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}
	return string(b), nil
}

// decodeField converts a stored value back into a FieldValue using the
// schema. Values of fields no longer in the schema are returned as scalars.
func decodeField(f domain.HandoverField) FieldValue {
	section, ok := Section(f.SectionName)
	if !ok {
		return ScalarValue(f.Value)
	}
	spec, ok := section.Field(f.FieldName)
	if !ok || spec.Kind != KindRecords {
		return ScalarValue(f.Value)
	}

	var recs []map[string]string
	if err := json.Unmarshal([]byte(f.Value), &recs); err != nil {
		return ScalarValue(f.Value)
	}
	return RecordsValue(recs)
}
