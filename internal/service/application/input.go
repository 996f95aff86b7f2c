package application

import (
	"slices"
	"strings"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/validation"
)

// CreateInput holds the parameters for creating an application.
type CreateInput struct {
	Name                string                   `json:"name" validate:"required,max=200"`
	ShortName           string                   `json:"short_name" validate:"max=50"`
	Status              domain.ApplicationStatus `json:"status" validate:"omitempty,oneof=Draft Active Deprecated Retired"`
	Description         string                   `json:"description" validate:"max=10000"`
	RelatedApplications []int64                  `json:"related_applications" validate:"max=100,dive,gt=0"`
}

// Validate trims text fields and checks all constraints.
func (i *CreateInput) Validate() error {
	i.Name = strings.TrimSpace(i.Name)
	i.ShortName = strings.TrimSpace(i.ShortName)
	i.Description = strings.TrimSpace(i.Description)
	return validation.Struct(i)
}

func (i CreateInput) toApplication(ownerID int64) domain.Application {
	app := domain.Application{
		Name:                i.Name,
		ShortName:           i.ShortName,
		Status:              i.Status,
		Description:         i.Description,
		OwnerUserID:         ownerID,
		RelatedApplications: normalizeIDs(i.RelatedApplications),
	}
	if app.Status == "" {
		app.Status = domain.ApplicationStatusDraft
	}
	return app
}

// UpdateInput holds a partial application update. A nil field is left unchanged.
type UpdateInput struct {
	ID                  int64                     `json:"id" validate:"gt=0"`
	Name                *string                   `json:"name" validate:"omitempty,min=1,max=200"`
	ShortName           *string                   `json:"short_name" validate:"omitempty,max=50"`
	Status              *domain.ApplicationStatus `json:"status" validate:"omitempty,oneof=Draft Active Deprecated Retired"`
	Description         *string                   `json:"description" validate:"omitempty,max=10000"`
	RelatedApplications *[]int64                  `json:"related_applications" validate:"omitempty,max=100,dive,gt=0"`
}

// Validate trims text fields and checks all constraints.
func (i *UpdateInput) Validate() error {
	for _, p := range []*string{i.Name, i.ShortName, i.Description} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if err := validation.Struct(i); err != nil {
		return err
	}
	if i.RelatedApplications != nil && slices.Contains(*i.RelatedApplications, i.ID) {
		return domain.NewValidationError("related_applications", "application cannot relate to itself")
	}
	return nil
}

func (i UpdateInput) params() domain.ApplicationUpdateParams {
	return domain.ApplicationUpdateParams{
		Name:                i.Name,
		ShortName:           i.ShortName,
		Status:              i.Status,
		Description:         i.Description,
		RelatedApplications: i.RelatedApplications,
	}
}

func normalizeIDs(ids []int64) []int64 {
	parsed, _ := domain.ParseIDList(domain.FormatIDList(ids))
	return parsed
}
