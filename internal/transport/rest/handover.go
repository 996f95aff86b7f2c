package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/service/handover"
)

const maxFormMemory = 8 << 20

type handoverService interface {
	CreateDocument(ctx context.Context, input handover.CreateDocumentInput) (domain.HandoverDocument, error)
	GetDocument(ctx context.Context, id int64) (handover.DocumentView, error)
	ListDocuments(ctx context.Context) ([]domain.HandoverDocument, error)
	SaveSection(ctx context.Context, input handover.SaveSectionInput) (handover.SaveSectionResult, error)
	ToggleStep(ctx context.Context, input handover.ToggleStepInput) ([]int, error)
}

// HandoverHandler serves handover documents and their form sections.
type HandoverHandler struct {
	svc handoverService
	log *slog.Logger
}

// NewHandoverHandler creates a HandoverHandler.
func NewHandoverHandler(svc handoverService, logger *slog.Logger) *HandoverHandler {
	return &HandoverHandler{svc: svc, log: logger.With("handler", "handover")}
}

type documentResponse struct {
	ID                   int64     `json:"id"`
	ApplicationID        *int64    `json:"application_id"`
	CreatedBy            int64     `json:"created_by"`
	CompletedSteps       []int     `json:"completed_steps"`
	CompletionPercentage float64   `json:"completion_percentage"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type participantResponse struct {
	Role         string `json:"role"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	ContactInfo  string `json:"contact_info"`
	Position     int    `json:"position"`
}

type documentEnvelope struct {
	Success  bool             `json:"success"`
	Document documentResponse `json:"document"`
}

type documentDetailEnvelope struct {
	Success      bool                                  `json:"success"`
	Document     documentResponse                      `json:"document"`
	Sections     map[string]map[string]json.RawMessage `json:"sections"`
	Participants []participantResponse                 `json:"participants"`
}

type documentListEnvelope struct {
	Success   bool               `json:"success"`
	Documents []documentResponse `json:"documents"`
}

type createDocumentRequest struct {
	ApplicationID *int64 `json:"application_id"`
}

type saveSectionRequest struct {
	DocumentID  int64                      `json:"document_id"`
	SectionName string                     `json:"section_name"`
	Fields      map[string]json.RawMessage `json:"fields"`
}

type saveSectionResponse struct {
	Success              bool     `json:"success"`
	SavedFields          []string `json:"saved_fields"`
	CompletionPercentage float64  `json:"completion_percentage"`
	CompletedSteps       []int    `json:"completed_steps"`
}

type toggleStepRequest struct {
	DocumentID int64 `json:"document_id"`
	StepNumber int   `json:"step_number"`
	Complete   bool  `json:"complete"`
}

type toggleStepResponse struct {
	Success        bool  `json:"success"`
	CompletedSteps []int `json:"completed_steps"`
}

// Create handles POST /api/handover. An empty body creates a document not
// tied to any application.
func (h *HandoverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}

	doc, err := h.svc.CreateDocument(r.Context(), handover.CreateDocumentInput{ApplicationID: req.ApplicationID})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, documentEnvelope{Success: true, Document: toDocumentResponse(doc)})
}

// List handles GET /api/handover.
func (h *HandoverHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := documentListEnvelope{Success: true, Documents: make([]documentResponse, len(docs))}
	for i, d := range docs {
		resp.Documents[i] = toDocumentResponse(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/handover/{id}. Scalar fields render as strings and
// record fields as arrays of objects.
func (h *HandoverHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	view, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := documentDetailEnvelope{
		Success:      true,
		Document:     toDocumentResponse(view.Document),
		Sections:     make(map[string]map[string]json.RawMessage, len(view.Sections)),
		Participants: make([]participantResponse, len(view.Participants)),
	}
	for section, fields := range view.Sections {
		out := make(map[string]json.RawMessage, len(fields))
		for name, v := range fields {
			raw, err := encodeFieldValue(v)
			if err != nil {
				handleError(h.log, w, r, err)
				return
			}
			out[name] = raw
		}
		resp.Sections[section] = out
	}
	for i, p := range view.Participants {
		resp.Participants[i] = participantResponse{
			Role:         p.Role,
			Name:         p.Name,
			Organization: p.Organization,
			ContactInfo:  p.ContactInfo,
			Position:     p.Position,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveSection handles POST /api/handover/save-section. It accepts either a
// bracket-encoded form or a JSON body.
func (h *HandoverHandler) SaveSection(w http.ResponseWriter, r *http.Request) {
	var (
		input handover.SaveSectionInput
		err   error
	)
	if isForm(r) {
		input, err = saveSectionFromForm(r)
	} else {
		input, err = saveSectionFromJSON(r)
	}
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.svc.SaveSection(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, saveSectionResponse{
		Success:              true,
		SavedFields:          nonNil(res.SavedFields),
		CompletionPercentage: res.CompletionPercentage,
		CompletedSteps:       nonNil(res.CompletedSteps),
	})
}

// ToggleStep handles POST /api/handover/toggle-step.
func (h *HandoverHandler) ToggleStep(w http.ResponseWriter, r *http.Request) {
	var req toggleStepRequest
	if isForm(r) {
		if err := parseForm(r); err != nil {
			handleError(h.log, w, r, err)
			return
		}
		var errs []domain.FieldError
		req.DocumentID, errs = formInt64(r, "document_id", errs)
		step, errs := formInt64(r, "step_number", errs)
		req.StepNumber = int(step)
		switch strings.ToLower(strings.TrimSpace(r.PostForm.Get("complete"))) {
		case "1", "true", "on", "yes":
			req.Complete = true
		case "", "0", "false", "off", "no":
		default:
			errs = append(errs, domain.FieldError{Field: "complete", Message: "must be a boolean"})
		}
		if len(errs) > 0 {
			handleError(h.log, w, r, domain.NewValidationErrors(errs))
			return
		}
	} else if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	steps, err := h.svc.ToggleStep(r.Context(), handover.ToggleStepInput{
		DocumentID: req.DocumentID,
		StepNumber: req.StepNumber,
		Complete:   req.Complete,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleStepResponse{Success: true, CompletedSteps: nonNil(steps)})
}

func saveSectionFromForm(r *http.Request) (handover.SaveSectionInput, error) {
	if err := parseForm(r); err != nil {
		return handover.SaveSectionInput{}, err
	}

	var errs []domain.FieldError
	docID, errs := formInt64(r, "document_id", errs)
	if len(errs) > 0 {
		return handover.SaveSectionInput{}, domain.NewValidationErrors(errs)
	}

	input := handover.SaveSectionInput{
		DocumentID:  docID,
		SectionName: strings.TrimSpace(r.PostForm.Get("section_name")),
	}

	fields, err := parseBracketForm(r.PostForm, "document_id", "section_name")
	if err != nil {
		return handover.SaveSectionInput{}, err
	}

	section, known := handover.Section(input.SectionName)
	input.Fields = make(map[string]handover.FieldValue, len(fields))
	for name, f := range fields {
		if f.IsRecords {
			input.Fields[name] = handover.RecordsValue(f.Records)
			continue
		}
		// A records field with no rows left is posted as a bare empty value.
		if known && f.Scalar == "" {
			if spec, ok := section.Field(name); ok && spec.Kind == handover.KindRecords {
				input.Fields[name] = handover.RecordsValue(nil)
				continue
			}
		}
		input.Fields[name] = handover.ScalarValue(f.Scalar)
	}
	return input, nil
}

func saveSectionFromJSON(r *http.Request) (handover.SaveSectionInput, error) {
	var req saveSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		return handover.SaveSectionInput{}, err
	}

	input := handover.SaveSectionInput{
		DocumentID:  req.DocumentID,
		SectionName: strings.TrimSpace(req.SectionName),
		Fields:      make(map[string]handover.FieldValue, len(req.Fields)),
	}

	var errs []domain.FieldError
	for name, raw := range req.Fields {
		v, err := decodeFieldValue(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: name, Message: "must be a string, null or an array of objects"})
			continue
		}
		input.Fields[name] = v
	}
	if len(errs) > 0 {
		return handover.SaveSectionInput{}, domain.NewValidationErrors(errs)
	}
	return input, nil
}

func decodeFieldValue(raw json.RawMessage) (handover.FieldValue, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return handover.ScalarValue(""), nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var records []map[string]string
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return handover.FieldValue{}, err
		}
		return handover.RecordsValue(records), nil
	default:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return handover.FieldValue{}, err
		}
		return handover.ScalarValue(s), nil
	}
}

func encodeFieldValue(v handover.FieldValue) (json.RawMessage, error) {
	if v.IsRecords {
		return json.Marshal(nonNil(v.Records))
	}
	return json.Marshal(v.Scalar)
}

func parseForm(r *http.Request) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return domain.NewValidationError("body", "invalid form: "+err.Error())
	}
	return nil
}

func formInt64(r *http.Request, name string, errs []domain.FieldError) (int64, []domain.FieldError) {
	raw := strings.TrimSpace(r.PostForm.Get(name))
	if raw == "" {
		return 0, errs
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, append(errs, domain.FieldError{Field: name, Message: "must be an integer"})
	}
	return v, errs
}

func toDocumentResponse(d domain.HandoverDocument) documentResponse {
	return documentResponse{
		ID:                   d.ID,
		ApplicationID:        d.ApplicationID,
		CreatedBy:            d.CreatedBy,
		CompletedSteps:       nonNil(d.CompletedSteps),
		CompletionPercentage: d.CompletionPercentage,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
