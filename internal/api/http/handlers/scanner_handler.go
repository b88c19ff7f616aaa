package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/secureguard/phishsim-service/internal/api/dto"
	"github.com/secureguard/phishsim-service/internal/service"
	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

// ScannerHandler exposes the simulated security-tool endpoints.
type ScannerHandler struct {
	scanner service.Scanner
}

// NewScannerHandler constructs handler.
func NewScannerHandler(scanner service.Scanner) *ScannerHandler {
	return &ScannerHandler{scanner: scanner}
}

// ScanURL handles POST /api/tools/scan-url.
func (h *ScannerHandler) ScanURL(c *fiber.Ctx) error {
	var req dto.ScanURLRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	result, err := h.scanner.ScanURL(c.Context(), req.URL)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// ScanFile handles POST /api/tools/scan-file.
func (h *ScannerHandler) ScanFile(c *fiber.Ctx) error {
	var req dto.ScanFileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	result, err := h.scanner.ScanFile(c.Context(), req.FileName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// BreachSearch handles POST /api/tools/breach-search.
func (h *ScannerHandler) BreachSearch(c *fiber.Ctx) error {
	var req dto.BreachSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	result, err := h.scanner.SearchBreaches(c.Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// DarkWebMonitor handles POST /api/tools/darkweb-monitor.
func (h *ScannerHandler) DarkWebMonitor(c *fiber.Ctx) error {
	var req dto.DarkWebRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	result, err := h.scanner.MonitorDarkWeb(c.Context(), req.Domain)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
