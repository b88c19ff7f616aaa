package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"text/template"

	"github.com/jackc/pgx/v5"

	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/repository"
	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

// TemplateService manages the phishing template catalog.
type TemplateService struct {
	templates repository.TemplateRepository
	campaigns repository.CampaignRepository
}

// NewTemplateService constructs the service.
func NewTemplateService(templates repository.TemplateRepository, campaigns repository.CampaignRepository) *TemplateService {
	return &TemplateService{templates: templates, campaigns: campaigns}
}

// TemplateInput describes template create/update payload.
type TemplateInput struct {
	Name        string
	Subject     string
	SenderName  string
	SenderEmail string
	Body        string
	Category    string
}

// Create stores a new template.
func (s *TemplateService) Create(ctx context.Context, input TemplateInput) (*domain.Template, error) {
	tpl := &domain.Template{
		Name:        strings.TrimSpace(input.Name),
		Subject:     strings.TrimSpace(input.Subject),
		SenderName:  strings.TrimSpace(input.SenderName),
		SenderEmail: strings.TrimSpace(input.SenderEmail),
		Body:        input.Body,
		Category:    strings.TrimSpace(input.Category),
	}
	if tpl.Category == "" {
		tpl.Category = "phishing"
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Update edits a live template. Launched campaigns are unaffected; they
// carry their own frozen snapshot.
func (s *TemplateService) Update(ctx context.Context, id string, input TemplateInput) (*domain.Template, error) {
	tpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tpl.Name = strings.TrimSpace(input.Name)
	tpl.Subject = strings.TrimSpace(input.Subject)
	tpl.SenderName = strings.TrimSpace(input.SenderName)
	tpl.SenderEmail = strings.TrimSpace(input.SenderEmail)
	tpl.Body = input.Body
	if category := strings.TrimSpace(input.Category); category != "" {
		tpl.Category = category
	}
	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Get fetches one template.
func (s *TemplateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("template", map[string]any{"id": id})
		}
		return nil, err
	}
	return tpl, nil
}

// List returns all templates.
func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	return s.templates.List(ctx)
}

// Delete removes a template from the catalog. It fails with TEMPLATE_IN_USE
// while any draft, scheduled or active campaign references the template;
// completed and cancelled campaigns hold their own snapshot and never block
// deletion.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	live, err := s.campaigns.CountLiveByTemplate(ctx, id)
	if err != nil {
		return err
	}
	if live > 0 {
		return apperrors.NewConflict(apperrors.CodeTemplateInUse,
			"template is referenced by a live campaign",
			map[string]any{"template_id": id, "live_campaigns": live})
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("template", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// Preview renders the template body with a placeholder tracking link, the
// way a recipient would see it.
func (s *TemplateService) Preview(ctx context.Context, id string) (subject, body string, err error) {
	tpl, err := s.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	rendered, err := RenderBody(tpl.Body, "#preview")
	if err != nil {
		return "", "", apperrors.NewValidationError("template body does not parse", map[string]any{"body": err.Error()})
	}
	return tpl.Subject, rendered, nil
}

// RenderBody substitutes the tracking link placeholder into a message body.
func RenderBody(body, trackingURL string) (string, error) {
	parsed, err := template.New("body").Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, struct{ TrackingURL string }{TrackingURL: trackingURL}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
