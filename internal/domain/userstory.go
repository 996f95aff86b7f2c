package domain

import "time"

// StoryStatus is the workflow status of a user story.
type StoryStatus string

const (
	StoryStatusNew        StoryStatus = "new"
	StoryStatusInProgress StoryStatus = "in_progress"
	StoryStatusTesting    StoryStatus = "testing"
	StoryStatusDone       StoryStatus = "done"
	StoryStatusCancelled  StoryStatus = "cancelled"
)

// StoryStatuses lists all statuses in workflow order.
var StoryStatuses = []StoryStatus{
	StoryStatusNew, StoryStatusInProgress, StoryStatusTesting, StoryStatusDone, StoryStatusCancelled,
}

func (s StoryStatus) String() string { return string(s) }

// StoryPriority is the priority of a user story.
type StoryPriority string

const (
	StoryPriorityLow      StoryPriority = "low"
	StoryPriorityMedium   StoryPriority = "medium"
	StoryPriorityHigh     StoryPriority = "high"
	StoryPriorityCritical StoryPriority = "critical"
)

// StoryPriorities lists all priorities from lowest to highest.
var StoryPriorities = []StoryPriority{
	StoryPriorityLow, StoryPriorityMedium, StoryPriorityHigh, StoryPriorityCritical,
}

func (p StoryPriority) String() string { return string(p) }

// UserStory is an "as a / I want / so that" requirement.
type UserStory struct {
	ID                 int64
	ApplicationID      *int64
	Title              string
	Role               string
	Want               string
	Benefit            string
	AcceptanceCriteria string
	Priority           StoryPriority
	Status             StoryStatus
	StoryPoints        *int
	Tags               []string
	CreatedBy          int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UserStoryUpdateParams holds the optional fields of a story update.
type UserStoryUpdateParams struct {
	Title              *string
	Role               *string
	Want               *string
	Benefit            *string
	AcceptanceCriteria *string
	Priority           *StoryPriority
	Status             *StoryStatus
	StoryPoints        **int
	Tags               *[]string
}

// UserStoryFilter narrows story listings.
type UserStoryFilter struct {
	ApplicationID *int64
	Status        *StoryStatus
	Priority      *StoryPriority
	CreatedBy     *int64
	Limit         int
	Offset        int
}

// UserStoryStats are derived counters over a set of stories.
type UserStoryStats struct {
	Total                int
	ByStatus             map[StoryStatus]int
	ByPriority           map[StoryPriority]int
	TotalPoints          int
	CompletedPoints      int
	CompletionPercentage float64
}

// UserStoryAggregate is one (status, priority) bucket of story counters.
type UserStoryAggregate struct {
	Status   StoryStatus
	Priority StoryPriority
	Count    int
	Points   int
}
