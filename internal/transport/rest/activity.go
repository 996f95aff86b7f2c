package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/apptracker/internal/config"
	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/export"
	"github.com/heartmarshall/apptracker/internal/service/activity"
)

type activityService interface {
	GetActivityPage(ctx context.Context, applicationID int64, f domain.ActivityFilter, page domain.Page) ([]domain.ActivityItem, int, error)
	ExportActivityFeed(ctx context.Context, applicationID int64, f domain.ActivityFilter, w io.Writer) error
	AddWorkNote(ctx context.Context, input activity.AddWorkNoteInput) (domain.WorkNote, error)
	GetWorkNoteAttachment(ctx context.Context, id int64) (domain.WorkNote, error)
	HideActivity(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error)
	ShowActivity(ctx context.Context, activityType domain.ActivityType, id int64) (bool, error)
}

// ActivityHandler serves the activity feed, work notes and visibility toggles.
type ActivityHandler struct {
	svc   activityService
	pages config.ActivityConfig
	log   *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(svc activityService, pages config.ActivityConfig, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, pages: pages, log: logger.With("handler", "activity")}
}

type activityItemResponse struct {
	ActivityType       string    `json:"activity_type"`
	ID                 int64     `json:"id"`
	ApplicationID      int64     `json:"application_id"`
	UserID             int64     `json:"user_id"`
	UserName           string    `json:"user_name"`
	Content            string    `json:"content"`
	Type               string    `json:"type"`
	Priority           string    `json:"priority,omitempty"`
	HasAttachment      bool      `json:"has_attachment"`
	AttachmentFilename string    `json:"attachment_filename,omitempty"`
	AttachmentSize     int64     `json:"attachment_size,omitempty"`
	AttachmentMIMEType string    `json:"attachment_mime_type,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	IsVisible          bool      `json:"is_visible"`
}

type feedResponse struct {
	Success bool                   `json:"success"`
	Items   []activityItemResponse `json:"items"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

type attachmentRequest struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type addWorkNoteRequest struct {
	Note       string             `json:"note"`
	Type       string             `json:"type"`
	Priority   string             `json:"priority"`
	Attachment *attachmentRequest `json:"attachment"`
}

type visibilityRequest struct {
	ActivityType string `json:"activity_type"`
	ID           int64  `json:"id"`
	Visible      bool   `json:"visible"`
}

type successResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id,omitempty"`
}

// Feed handles GET /api/applications/{id}/activity.
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	q := newQueryParser(r.URL.Query())
	filter := parseActivityFilter(q)
	page := domain.Page{
		Limit:  h.pageLimit(q.Int("limit", 0)),
		Offset: q.Int("offset", 0),
	}
	if err := q.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items, total, err := h.svc.GetActivityPage(r.Context(), appID, filter, page)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := feedResponse{
		Success: true,
		Items:   make([]activityItemResponse, len(items)),
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
	for i, item := range items {
		resp.Items[i] = toActivityItemResponse(item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Export handles GET /api/applications/{id}/activity/export.
func (h *ActivityHandler) Export(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	q := newQueryParser(r.URL.Query())
	filter := parseActivityFilter(q)
	if err := q.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.svc.ExportActivityFeed(r.Context(), appID, filter, &buf); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	filename := fmt.Sprintf("activity-%d-%s.xlsx", appID, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// AddWorkNote handles POST /api/applications/{id}/work-notes.
func (h *ActivityHandler) AddWorkNote(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req addWorkNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := activity.AddWorkNoteInput{
		ApplicationID: appID,
		Note:          req.Note,
		Type:          req.Type,
		Priority:      domain.Priority(req.Priority),
	}
	if req.Attachment != nil {
		input.Attachment = &activity.AttachmentInput{
			Data:     req.Attachment.Data,
			Filename: req.Attachment.Filename,
			MIMEType: req.Attachment.MIMEType,
		}
	}

	note, err := h.svc.AddWorkNote(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, successResponse{Success: true, ID: note.ID})
}

// Attachment handles GET /api/work-notes/{id}/attachment.
func (h *ActivityHandler) Attachment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	note, err := h.svc.GetWorkNoteAttachment(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if note.Attachment == nil {
		writeError(w, http.StatusNotFound, "work note has no attachment")
		return
	}

	a := note.Attachment
	w.Header().Set("Content-Type", a.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

// SetVisibility handles POST /api/activity/visibility. Requests the caller
// may not perform answer {"success": false} with status 200.
func (h *ActivityHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if req.ID <= 0 {
		handleError(h.log, w, r, domain.NewValidationError("id", "required"))
		return
	}

	toggle := h.svc.HideActivity
	if req.Visible {
		toggle = h.svc.ShowActivity
	}

	ok, err := toggle(r.Context(), domain.ActivityType(req.ActivityType), req.ID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: ok})
}

func (h *ActivityHandler) pageLimit(requested int) int {
	if requested <= 0 {
		requested = h.pages.DefaultPageSize
	}
	if h.pages.MaxPageSize > 0 && requested > h.pages.MaxPageSize {
		return h.pages.MaxPageSize
	}
	return requested
}

func parseActivityFilter(q *queryParser) domain.ActivityFilter {
	return domain.ActivityFilter{
		WorkNotesOnly: q.Bool("work_notes_only"),
		ShowHidden:    q.Bool("show_hidden"),
		UserID:        q.OptionalID("user_id"),
		FromDate:      q.OptionalDate("from_date"),
	}
}

func toActivityItemResponse(item domain.ActivityItem) activityItemResponse {
	return activityItemResponse{
		ActivityType:       item.ActivityType.String(),
		ID:                 item.ID,
		ApplicationID:      item.ApplicationID,
		UserID:             item.UserID,
		UserName:           item.UserName,
		Content:            item.Content,
		Type:               item.Type,
		Priority:           item.Priority.String(),
		HasAttachment:      item.HasAttachment,
		AttachmentFilename: item.AttachmentFilename,
		AttachmentSize:     item.AttachmentSize,
		AttachmentMIMEType: item.AttachmentMIMEType,
		CreatedAt:          item.CreatedAt,
		IsVisible:          item.IsVisible,
	}
}
