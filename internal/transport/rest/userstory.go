package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/service/userstory"
)

type userStoryService interface {
	Create(ctx context.Context, input userstory.CreateInput) (domain.UserStory, error)
	Get(ctx context.Context, id int64) (domain.UserStory, error)
	List(ctx context.Context, f domain.UserStoryFilter) ([]domain.UserStory, error)
	Update(ctx context.Context, input userstory.UpdateInput) (domain.UserStory, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, applicationID *int64) (domain.UserStoryStats, error)
}

// UserStoryHandler serves user stories.
type UserStoryHandler struct {
	svc userStoryService
	log *slog.Logger
}

// NewUserStoryHandler creates a UserStoryHandler.
func NewUserStoryHandler(svc userStoryService, logger *slog.Logger) *UserStoryHandler {
	return &UserStoryHandler{svc: svc, log: logger.With("handler", "user_story")}
}

type userStoryResponse struct {
	ID                 int64     `json:"id"`
	ApplicationID      *int64    `json:"application_id"`
	Title              string    `json:"title"`
	Role               string    `json:"role"`
	Want               string    `json:"want"`
	Benefit            string    `json:"benefit"`
	AcceptanceCriteria string    `json:"acceptance_criteria"`
	Priority           string    `json:"priority"`
	Status             string    `json:"status"`
	StoryPoints        *int      `json:"story_points"`
	Tags               []string  `json:"tags"`
	CreatedBy          int64     `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type userStoryEnvelope struct {
	Success bool              `json:"success"`
	Story   userStoryResponse `json:"story"`
}

type userStoryListEnvelope struct {
	Success bool                `json:"success"`
	Stories []userStoryResponse `json:"stories"`
}

type userStoryStatsResponse struct {
	Success              bool           `json:"success"`
	Total                int            `json:"total"`
	ByStatus             map[string]int `json:"by_status"`
	ByPriority           map[string]int `json:"by_priority"`
	TotalPoints          int            `json:"total_points"`
	CompletedPoints      int            `json:"completed_points"`
	CompletionPercentage float64        `json:"completion_percentage"`
}

// List handles GET /api/user-stories.
func (h *UserStoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r.URL.Query())
	f := domain.UserStoryFilter{
		ApplicationID: q.OptionalID("application_id"),
		CreatedBy:     q.OptionalID("created_by"),
		Limit:         q.Int("limit", 0),
		Offset:        q.Int("offset", 0),
	}
	if s := q.OptionalString("status"); s != nil {
		status := domain.StoryStatus(*s)
		f.Status = &status
	}
	if p := q.OptionalString("priority"); p != nil {
		priority := domain.StoryPriority(*p)
		f.Priority = &priority
	}
	if err := q.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	stories, err := h.svc.List(r.Context(), f)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := userStoryListEnvelope{Success: true, Stories: make([]userStoryResponse, len(stories))}
	for i, s := range stories {
		resp.Stories[i] = toUserStoryResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/user-stories/{id}.
func (h *UserStoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	story, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userStoryEnvelope{Success: true, Story: toUserStoryResponse(story)})
}

// Create handles POST /api/user-stories.
func (h *UserStoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input userstory.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	story, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userStoryEnvelope{Success: true, Story: toUserStoryResponse(story)})
}

// Update handles PATCH /api/user-stories/{id}.
func (h *UserStoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var input userstory.UpdateInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.ID = id

	story, err := h.svc.Update(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userStoryEnvelope{Success: true, Story: toUserStoryResponse(story)})
}

// Delete handles DELETE /api/user-stories/{id}.
func (h *UserStoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Stats handles GET /api/user-stories/stats.
func (h *UserStoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r.URL.Query())
	appID := q.OptionalID("application_id")
	if err := q.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	stats, err := h.svc.Stats(r.Context(), appID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := userStoryStatsResponse{
		Success:              true,
		Total:                stats.Total,
		ByStatus:             make(map[string]int, len(stats.ByStatus)),
		ByPriority:           make(map[string]int, len(stats.ByPriority)),
		TotalPoints:          stats.TotalPoints,
		CompletedPoints:      stats.CompletedPoints,
		CompletionPercentage: stats.CompletionPercentage,
	}
	for s, n := range stats.ByStatus {
		resp.ByStatus[s.String()] = n
	}
	for p, n := range stats.ByPriority {
		resp.ByPriority[p.String()] = n
	}
	writeJSON(w, http.StatusOK, resp)
}

func toUserStoryResponse(s domain.UserStory) userStoryResponse {
	return userStoryResponse{
		ID:                 s.ID,
		ApplicationID:      s.ApplicationID,
		Title:              s.Title,
		Role:               s.Role,
		Want:               s.Want,
		Benefit:            s.Benefit,
		AcceptanceCriteria: s.AcceptanceCriteria,
		Priority:           s.Priority.String(),
		Status:             s.Status.String(),
		StoryPoints:        s.StoryPoints,
		Tags:               nonNil(s.Tags),
		CreatedBy:          s.CreatedBy,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
