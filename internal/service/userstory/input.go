package userstory

import (
	"strings"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/validation"
)

// CreateInput holds the parameters for creating a story.
type CreateInput struct {
	ApplicationID      *int64               `json:"application_id" validate:"omitempty,gt=0"`
	Title              string               `json:"title" validate:"required,max=200"`
	Role               string               `json:"role" validate:"required,max=200"`
	Want               string               `json:"want" validate:"required,max=2000"`
	Benefit            string               `json:"benefit" validate:"max=2000"`
	AcceptanceCriteria string               `json:"acceptance_criteria" validate:"max=10000"`
	Priority           domain.StoryPriority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status             domain.StoryStatus   `json:"status" validate:"omitempty,oneof=new in_progress testing done cancelled"`
	StoryPoints        *int                 `json:"story_points" validate:"omitempty,min=0,max=100"`
	Tags               []string             `json:"tags" validate:"max=20,dive,max=50"`
}

// Validate trims text fields and checks all constraints.
func (i *CreateInput) Validate() error {
	i.Title = strings.TrimSpace(i.Title)
	i.Role = strings.TrimSpace(i.Role)
	i.Want = strings.TrimSpace(i.Want)
	i.Benefit = strings.TrimSpace(i.Benefit)
	i.AcceptanceCriteria = strings.TrimSpace(i.AcceptanceCriteria)
	i.Tags = cleanTags(i.Tags)
	return validation.Struct(i)
}

func (i CreateInput) toStory(userID int64) domain.UserStory {
	s := domain.UserStory{
		ApplicationID:      i.ApplicationID,
		Title:              i.Title,
		Role:               i.Role,
		Want:               i.Want,
		Benefit:            i.Benefit,
		AcceptanceCriteria: i.AcceptanceCriteria,
		Priority:           i.Priority,
		Status:             i.Status,
		StoryPoints:        i.StoryPoints,
		Tags:               i.Tags,
		CreatedBy:          userID,
	}
	if s.Priority == "" {
		s.Priority = domain.StoryPriorityMedium
	}
	if s.Status == "" {
		s.Status = domain.StoryStatusNew
	}
	return s
}

// UpdateInput holds the optional fields of a story update. ClearStoryPoints
// unsets the estimate and wins over StoryPoints.
type UpdateInput struct {
	ID                 int64                 `json:"id" validate:"gt=0"`
	Title              *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Role               *string               `json:"role" validate:"omitempty,min=1,max=200"`
	Want               *string               `json:"want" validate:"omitempty,min=1,max=2000"`
	Benefit            *string               `json:"benefit" validate:"omitempty,max=2000"`
	AcceptanceCriteria *string               `json:"acceptance_criteria" validate:"omitempty,max=10000"`
	Priority           *domain.StoryPriority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status             *domain.StoryStatus   `json:"status" validate:"omitempty,oneof=new in_progress testing done cancelled"`
	StoryPoints        *int                  `json:"story_points" validate:"omitempty,min=0,max=100"`
	ClearStoryPoints   bool                  `json:"clear_story_points"`
	Tags               *[]string             `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

// Validate trims text fields and checks all constraints.
func (i *UpdateInput) Validate() error {
	for _, p := range []*string{i.Title, i.Role, i.Want, i.Benefit, i.AcceptanceCriteria} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if i.Tags != nil {
		cleaned := cleanTags(*i.Tags)
		i.Tags = &cleaned
	}
	return validation.Struct(i)
}

// apply returns s with the input's fields applied.
func (i UpdateInput) apply(s domain.UserStory) domain.UserStory {
	if i.Title != nil {
		s.Title = *i.Title
	}
	if i.Role != nil {
		s.Role = *i.Role
	}
	if i.Want != nil {
		s.Want = *i.Want
	}
	if i.Benefit != nil {
		s.Benefit = *i.Benefit
	}
	if i.AcceptanceCriteria != nil {
		s.AcceptanceCriteria = *i.AcceptanceCriteria
	}
	if i.Priority != nil {
		s.Priority = *i.Priority
	}
	if i.Status != nil {
		s.Status = *i.Status
	}
	switch {
	case i.ClearStoryPoints:
		s.StoryPoints = nil
	case i.StoryPoints != nil:
		p := *i.StoryPoints
		s.StoryPoints = &p
	}
	if i.Tags != nil {
		s.Tags = *i.Tags
	}
	return s
}

// cleanTags trims tags and drops blanks and duplicates, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
