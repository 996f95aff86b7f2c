package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// ApplicationStatus is the lifecycle status of a tracked application.
type ApplicationStatus string

const (
	ApplicationStatusDraft      ApplicationStatus = "Draft"
	ApplicationStatusActive     ApplicationStatus = "Active"
	ApplicationStatusDeprecated ApplicationStatus = "Deprecated"
	ApplicationStatusRetired    ApplicationStatus = "Retired"
)

func (s ApplicationStatus) String() string { return string(s) }

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusActive, ApplicationStatusDeprecated, ApplicationStatusRetired:
		return true
	}
	return false
}

// Application is the primary tracked entity.
type Application struct {
	ID                  int64
	Name                string
	ShortName           string
	Status              ApplicationStatus
	Description         string
	OwnerUserID         int64
	RelatedApplications []int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DisplayName returns the short name, falling back to the full name.
func (a Application) DisplayName() string {
	if a.ShortName != "" {
		return a.ShortName
	}
	return a.Name
}

// ApplicationUpdateParams holds the optional fields of an application update.
// A nil field is left unchanged.
type ApplicationUpdateParams struct {
	Name                *string
	ShortName           *string
	Status              *ApplicationStatus
	Description         *string
	RelatedApplications *[]int64
}

// FormatIDList renders ids as a sorted, de-duplicated comma-separated list.
func FormatIDList(ids []int64) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ParseIDList parses a comma-separated list of ids. Blank items are skipped.
func ParseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
