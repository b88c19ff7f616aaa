package dto

import (
	"time"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// TemplateRequest payload for template create/update.
type TemplateRequest struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	SenderName  string `json:"sender_name" validate:"required"`
	SenderEmail string `json:"sender_email" validate:"required,email"`
	Body        string `json:"body" validate:"required"`
	Category    string `json:"category"`
}

// TemplateResponse is the public view of a template.
type TemplateResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Body        string    `json:"body"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TemplatePreviewResponse is the rendered preview.
type TemplatePreviewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewTemplateResponse maps a domain template.
func NewTemplateResponse(tpl *domain.Template) TemplateResponse {
	return TemplateResponse{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Subject:     tpl.Subject,
		SenderName:  tpl.SenderName,
		SenderEmail: tpl.SenderEmail,
		Body:        tpl.Body,
		Category:    tpl.Category,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	}
}
