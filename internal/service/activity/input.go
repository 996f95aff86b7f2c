package activity

import (
	"errors"
	"strings"

	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/validation"
)

const (
	defaultNoteType = "general"
	defaultMIMEType = "application/octet-stream"
)

// AttachmentInput is a file uploaded with a work note.
type AttachmentInput struct {
	Filename string `json:"filename" validate:"required,max=255"`
	MIMEType string `json:"mime_type" validate:"max=255"`
	Data     []byte `json:"data" validate:"min=1"`
}

// AddWorkNoteInput holds the parameters for adding a work note.
type AddWorkNoteInput struct {
	ApplicationID int64            `json:"application_id" validate:"gt=0"`
	Note          string           `json:"note" validate:"required,max=20000"`
	Type          string           `json:"type" validate:"max=50"`
	Priority      domain.Priority  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Attachment    *AttachmentInput `json:"attachment" validate:"omitempty"`
}

// Validate trims text fields and checks all constraints. The attachment size
// limit comes from configuration; maxAttachment <= 0 disables it.
func (i *AddWorkNoteInput) Validate(maxAttachment int64) error {
	i.Note = strings.TrimSpace(i.Note)
	i.Type = strings.TrimSpace(i.Type)
	if a := i.Attachment; a != nil {
		a.Filename = strings.TrimSpace(a.Filename)
		a.MIMEType = strings.TrimSpace(a.MIMEType)
	}

	var fields []domain.FieldError
	if err := validation.Struct(i); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		fields = ve.Errors
	}
	if a := i.Attachment; a != nil && maxAttachment > 0 && int64(len(a.Data)) > maxAttachment {
		fields = append(fields, domain.FieldError{Field: "attachment.data", Message: "file too large"})
	}

	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

// toWorkNote normalizes the input into a note authored by userID.
func (i AddWorkNoteInput) toWorkNote(userID int64) domain.WorkNote {
	n := domain.WorkNote{
		ApplicationID: i.ApplicationID,
		UserID:        userID,
		Note:          i.Note,
		Type:          i.Type,
		Priority:      i.Priority,
		IsVisible:     true,
	}
	if n.Type == "" {
		n.Type = defaultNoteType
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	if a := i.Attachment; a != nil {
		mime := a.MIMEType
		if mime == "" {
			mime = defaultMIMEType
		}
		n.Attachment = &domain.Attachment{
			Data:     a.Data,
			Filename: a.Filename,
			Size:     int64(len(a.Data)),
			MIMEType: mime,
		}
	}
	return n
}
