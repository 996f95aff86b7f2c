package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Health       *HealthHandler
	Activity     *ActivityHandler
	Applications *ApplicationHandler
	Handover     *HandoverHandler
	UserStories  *UserStoryHandler
}

// NewRouter registers every API route. Method dispatch happens in the
// methods table so unsupported methods get a JSON 405.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/live", methods{http.MethodGet: h.Health.Live})
	mux.Handle("/ready", methods{http.MethodGet: h.Health.Ready})
	mux.Handle("/health", methods{http.MethodGet: h.Health.Health})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/api/applications", methods{
		http.MethodGet:  h.Applications.List,
		http.MethodPost: h.Applications.Create,
	})
	mux.Handle("/api/applications/{id}", methods{
		http.MethodGet:   h.Applications.Get,
		http.MethodPatch: h.Applications.Update,
	})

	mux.Handle("/api/applications/{id}/activity", methods{http.MethodGet: h.Activity.Feed})
	mux.Handle("/api/applications/{id}/activity/export", methods{http.MethodGet: h.Activity.Export})
	mux.Handle("/api/applications/{id}/work-notes", methods{http.MethodPost: h.Activity.AddWorkNote})
	mux.Handle("/api/work-notes/{id}/attachment", methods{http.MethodGet: h.Activity.Attachment})
	mux.Handle("/api/activity/visibility", methods{http.MethodPost: h.Activity.SetVisibility})

	mux.Handle("/api/handover", methods{
		http.MethodGet:  h.Handover.List,
		http.MethodPost: h.Handover.Create,
	})
	mux.Handle("/api/handover/{id}", methods{http.MethodGet: h.Handover.Get})
	mux.Handle("/api/handover/save-section", methods{http.MethodPost: h.Handover.SaveSection})
	mux.Handle("/api/handover/toggle-step", methods{http.MethodPost: h.Handover.ToggleStep})

	mux.Handle("/api/user-stories", methods{
		http.MethodGet:  h.UserStories.List,
		http.MethodPost: h.UserStories.Create,
	})
	mux.Handle("/api/user-stories/stats", methods{http.MethodGet: h.UserStories.Stats})
	mux.Handle("/api/user-stories/{id}", methods{
		http.MethodGet:    h.UserStories.Get,
		http.MethodPatch:  h.UserStories.Update,
		http.MethodDelete: h.UserStories.Delete,
	})

	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	}))

	return mux
}
