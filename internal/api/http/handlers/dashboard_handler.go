package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/secureguard/phishsim-service/internal/api/dto"
	"github.com/secureguard/phishsim-service/internal/service"
)

const recentCampaignLimit = 5

// DashboardHandler serves the authenticated landing data.
type DashboardHandler struct {
	stats     *service.StatsService
	campaigns *service.CampaignService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(stats *service.StatsService, campaigns *service.CampaignService) *DashboardHandler {
	return &DashboardHandler{stats: stats, campaigns: campaigns}
}

// Overview handles GET /api/dashboard.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	orgStats, err := h.stats.OrganizationStats(c.Context())
	if err != nil {
		return err
	}

	recent, err := h.campaigns.List(c.Context(), recentCampaignLimit, 0)
	if err != nil {
		return err
	}

	resp := dto.DashboardResponse{Stats: *orgStats}
	for i := range recent {
		var stats *dto.CampaignStatsView
		if recent[i].LaunchedAt != nil {
			cs, err := h.stats.CampaignStats(c.Context(), recent[i].ID)
			if err != nil {
				return err
			}
			stats = &dto.CampaignStatsView{Sent: cs.Sent, Clicked: cs.Clicked, ClickRate: cs.ClickRate}
		}
		item := dto.NewCampaignResponse(&recent[i], nil)
		item.Stats = stats
		resp.RecentCampaigns = append(resp.RecentCampaigns, item)
	}

	return c.JSON(fiber.Map{"data": resp})
}
