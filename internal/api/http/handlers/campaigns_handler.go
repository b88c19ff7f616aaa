package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/secureguard/phishsim-service/internal/api/dto"
	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/service"
	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

// CampaignsHandler exposes campaign lifecycle and stats endpoints.
type CampaignsHandler struct {
	campaigns *service.CampaignService
	stats     *service.StatsService
}

// NewCampaignsHandler constructs handler.
func NewCampaignsHandler(campaigns *service.CampaignService, stats *service.StatsService) *CampaignsHandler {
	return &CampaignsHandler{campaigns: campaigns, stats: stats}
}

// Create handles POST /api/campaigns.
func (h *CampaignsHandler) Create(c *fiber.Ctx) error {
	var req dto.CampaignCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	campaign, err := h.campaigns.Create(c.Context(), service.CampaignInput{
		Name:        req.Name,
		TemplateID:  req.TemplateID,
		TargetGroup: req.TargetGroup,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign, nil)})
}

// List handles GET /api/campaigns, embedding live stats per campaign.
func (h *CampaignsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	campaigns, err := h.campaigns.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	resp := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		stats, err := h.statsFor(c, &campaigns[i])
		if err != nil {
			return err
		}
		resp = append(resp, dto.NewCampaignResponse(&campaigns[i], stats))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/campaigns/:id.
func (h *CampaignsHandler) Get(c *fiber.Ctx) error {
	campaign, err := h.campaigns.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	stats, err := h.statsFor(c, campaign)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign, stats)})
}

// Launch handles POST /api/campaigns/:id/launch.
func (h *CampaignsHandler) Launch(c *fiber.Ctx) error {
	campaign, err := h.campaigns.Launch(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	stats, err := h.statsFor(c, campaign)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign, stats)})
}

// Cancel handles POST /api/campaigns/:id/cancel.
func (h *CampaignsHandler) Cancel(c *fiber.Ctx) error {
	campaign, err := h.campaigns.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign, nil)})
}

// Complete handles POST /api/campaigns/:id/complete.
func (h *CampaignsHandler) Complete(c *fiber.Ctx) error {
	campaign, err := h.campaigns.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign, nil)})
}

// Stats handles GET /api/campaigns/:id/stats.
func (h *CampaignsHandler) Stats(c *fiber.Ctx) error {
	if _, err := h.campaigns.Get(c.Context(), c.Params("id")); err != nil {
		return err
	}
	stats, err := h.stats.CampaignStats(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Groups handles GET /api/campaigns/:id/groups.
func (h *CampaignsHandler) Groups(c *fiber.Ctx) error {
	if _, err := h.campaigns.Get(c.Context(), c.Params("id")); err != nil {
		return err
	}
	breakdown, err := h.stats.GroupBreakdown(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": breakdown})
}

func (h *CampaignsHandler) statsFor(c *fiber.Ctx, campaign *domain.Campaign) (*domain.CampaignStats, error) {
	if campaign.LaunchedAt == nil {
		return nil, nil
	}
	return h.stats.CampaignStats(c.Context(), campaign.ID)
}
