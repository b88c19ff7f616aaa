package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/secureguard/phishsim-service/internal/api/dto"
	"github.com/secureguard/phishsim-service/internal/service"
	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

// TemplatesHandler exposes template catalog endpoints.
type TemplatesHandler struct {
	templates *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templates *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templates}
}

// Create handles POST /api/templates.
func (h *TemplatesHandler) Create(c *fiber.Ctx) error {
	input, err := parseTemplateRequest(c)
	if err != nil {
		return err
	}
	tpl, err := h.templates.Create(c.Context(), *input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// Update handles PUT /api/templates/:id.
func (h *TemplatesHandler) Update(c *fiber.Ctx) error {
	input, err := parseTemplateRequest(c)
	if err != nil {
		return err
	}
	tpl, err := h.templates.Update(c.Context(), c.Params("id"), *input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// Get handles GET /api/templates/:id.
func (h *TemplatesHandler) Get(c *fiber.Ctx) error {
	tpl, err := h.templates.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// List handles GET /api/templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	templates, err := h.templates.List(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		resp = append(resp, dto.NewTemplateResponse(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Delete handles DELETE /api/templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	if err := h.templates.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preview handles GET /api/templates/:id/preview.
func (h *TemplatesHandler) Preview(c *fiber.Ctx) error {
	subject, body, err := h.templates.Preview(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TemplatePreviewResponse{Subject: subject, Body: body}})
}

func parseTemplateRequest(c *fiber.Ctx) (*service.TemplateInput, error) {
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return &service.TemplateInput{
		Name:        req.Name,
		Subject:     req.Subject,
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		Body:        req.Body,
		Category:    req.Category,
	}, nil
}
