package rest

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// queryParser reads typed query parameters and collects every malformed one.
type queryParser struct {
	values url.Values
	errs   []domain.FieldError
}

func newQueryParser(values url.Values) *queryParser {
	return &queryParser{values: values}
}

func (p *queryParser) fail(name, message string) {
	p.errs = append(p.errs, domain.FieldError{Field: name, Message: message})
}

func (p *queryParser) Err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return domain.NewValidationErrors(p.errs)
}

// Bool accepts 1/0, true/false, yes/no and on/off. Absent means false.
func (p *queryParser) Bool(name string) bool {
	raw := strings.ToLower(strings.TrimSpace(p.values.Get(name)))
	switch raw {
	case "", "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	p.fail(name, "must be a boolean")
	return false
}

func (p *queryParser) Int(name string, def int) int {
	raw := strings.TrimSpace(p.values.Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		p.fail(name, "must be a non-negative integer")
		return def
	}
	return v
}

func (p *queryParser) OptionalID(name string) *int64 {
	raw := strings.TrimSpace(p.values.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		p.fail(name, "must be a positive integer")
		return nil
	}
	return &v
}

// OptionalDate accepts YYYY-MM-DD (midnight UTC) or RFC 3339.
func (p *queryParser) OptionalDate(name string) *time.Time {
	raw := strings.TrimSpace(p.values.Get(name))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	p.fail(name, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	return nil
}

func (p *queryParser) OptionalString(name string) *string {
	raw := strings.TrimSpace(p.values.Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}
