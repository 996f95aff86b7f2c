package rest

import (
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strconv"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// maxFormRecords bounds the record index accepted in bracket keys.
const maxFormRecords = 500

var bracketKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(\d+)\]\[([A-Za-z_][A-Za-z0-9_]*)\]$`)

// formField is one top-level name of a bracket-encoded form: either a plain
// value or a list of records.
type formField struct {
	Scalar    string
	Records   []map[string]string
	IsRecords bool
}

// parseBracketForm decodes form values where records are written as
// name[index][sub]=value. Indices may be sparse; records keep index order.
// Keys listed in skip (request metadata such as document_id) are ignored.
func parseBracketForm(values url.Values, skip ...string) (map[string]formField, error) {
	scalars := make(map[string]string)
	indexed := make(map[string]map[int]map[string]string)

	for key, vals := range values {
		if slices.Contains(skip, key) {
			continue
		}
		value := ""
		if len(vals) > 0 {
			value = vals[len(vals)-1]
		}

		m := bracketKey.FindStringSubmatch(key)
		if m == nil {
			if !isPlainName(key) {
				return nil, domain.NewValidationError(key, "malformed field name")
			}
			scalars[key] = value
			continue
		}

		name, sub := m[1], m[3]
		idx, err := strconv.Atoi(m[2])
		if err != nil || idx >= maxFormRecords {
			return nil, domain.NewValidationError(key, fmt.Sprintf("record index must be below %d", maxFormRecords))
		}
		if indexed[name] == nil {
			indexed[name] = make(map[int]map[string]string)
		}
		if indexed[name][idx] == nil {
			indexed[name][idx] = make(map[string]string)
		}
		indexed[name][idx][sub] = value
	}

	out := make(map[string]formField, len(scalars)+len(indexed))
	for name, v := range scalars {
		if _, clash := indexed[name]; clash {
			return nil, domain.NewValidationError(name, "field sent both as value and as records")
		}
		out[name] = formField{Scalar: v}
	}
	for name, byIndex := range indexed {
		records := make([]map[string]string, 0, len(byIndex))
		for _, idx := range slices.Sorted(maps.Keys(byIndex)) {
			records = append(records, byIndex[idx])
		}
		out[name] = formField{Records: records, IsRecords: true}
	}
	return out, nil
}

var plainName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isPlainName(s string) bool {
	return plainName.MatchString(s)
}
