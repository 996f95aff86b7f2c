package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/service/application"
)

type applicationService interface {
	Get(ctx context.Context, id int64) (domain.Application, error)
	List(ctx context.Context, limit, offset int) ([]domain.Application, error)
	Create(ctx context.Context, input application.CreateInput) (domain.Application, error)
	Update(ctx context.Context, input application.UpdateInput) (domain.Application, error)
}

// ApplicationHandler serves the application registry.
type ApplicationHandler struct {
	svc applicationService
	log *slog.Logger
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(svc applicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, log: logger.With("handler", "application")}
}

type applicationResponse struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	ShortName           string    `json:"short_name,omitempty"`
	Status              string    `json:"status"`
	Description         string    `json:"description,omitempty"`
	OwnerUserID         int64     `json:"owner_user_id"`
	RelatedApplications []int64   `json:"related_applications"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type applicationEnvelope struct {
	Success     bool                `json:"success"`
	Application applicationResponse `json:"application"`
}

type applicationListEnvelope struct {
	Success      bool                  `json:"success"`
	Applications []applicationResponse `json:"applications"`
}

// List handles GET /api/applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r.URL.Query())
	limit := q.Int("limit", 0)
	offset := q.Int("offset", 0)
	if err := q.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	apps, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := applicationListEnvelope{Success: true, Applications: make([]applicationResponse, len(apps))}
	for i, app := range apps {
		resp.Applications[i] = toApplicationResponse(app)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	app, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, applicationEnvelope{Success: true, Application: toApplicationResponse(app)})
}

// Create handles POST /api/applications.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input application.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	app, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, applicationEnvelope{Success: true, Application: toApplicationResponse(app)})
}

// Update handles PATCH /api/applications/{id}. The path id wins over any id
// in the body.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var input application.UpdateInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.ID = id

	app, err := h.svc.Update(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, applicationEnvelope{Success: true, Application: toApplicationResponse(app)})
}

func toApplicationResponse(app domain.Application) applicationResponse {
	related := app.RelatedApplications
	if related == nil {
		related = []int64{}
	}
	return applicationResponse{
		ID:                  app.ID,
		Name:                app.Name,
		ShortName:           app.ShortName,
		Status:              string(app.Status),
		Description:         app.Description,
		OwnerUserID:         app.OwnerUserID,
		RelatedApplications: related,
		CreatedAt:           app.CreatedAt,
		UpdatedAt:           app.UpdatedAt,
	}
}
