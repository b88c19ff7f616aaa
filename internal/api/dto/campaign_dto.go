package dto

import (
	"time"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// CampaignCreateRequest payload for new campaigns.
type CampaignCreateRequest struct {
	Name        string     `json:"name" validate:"required"`
	TemplateID  string     `json:"template_id" validate:"required,uuid4"`
	TargetGroup string     `json:"target_group" validate:"required"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// CampaignResponse is the public view of a campaign, optionally carrying
// live stats.
type CampaignResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	TemplateID  string                `json:"template_id"`
	TargetGroup string                `json:"target_group"`
	Status      string                `json:"status"`
	ScheduledAt *time.Time            `json:"scheduled_at,omitempty"`
	LaunchedAt  *time.Time            `json:"launched_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	Snapshot    *TemplateSnapshotView `json:"template_snapshot,omitempty"`
	Stats       *CampaignStatsView    `json:"stats,omitempty"`
}

// TemplateSnapshotView is the frozen template content on a launched campaign.
type TemplateSnapshotView struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email"`
	Category    string `json:"category"`
}

// CampaignStatsView carries sent/clicked/rate.
type CampaignStatsView struct {
	Sent      int     `json:"sent"`
	Clicked   int     `json:"clicked"`
	ClickRate float64 `json:"click_rate"`
}

// DashboardResponse is the authenticated landing payload.
type DashboardResponse struct {
	Stats           domain.OrganizationStats `json:"stats"`
	RecentCampaigns []CampaignResponse       `json:"recent_campaigns"`
}

// NewCampaignResponse maps a domain campaign.
func NewCampaignResponse(campaign *domain.Campaign, stats *domain.CampaignStats) CampaignResponse {
	resp := CampaignResponse{
		ID:          campaign.ID,
		Name:        campaign.Name,
		TemplateID:  campaign.TemplateID,
		TargetGroup: campaign.TargetGroup,
		Status:      string(campaign.Status),
		ScheduledAt: campaign.ScheduledAt,
		LaunchedAt:  campaign.LaunchedAt,
		CreatedAt:   campaign.CreatedAt,
	}
	if campaign.Snapshot != nil {
		resp.Snapshot = &TemplateSnapshotView{
			Name:        campaign.Snapshot.Name,
			Subject:     campaign.Snapshot.Subject,
			SenderName:  campaign.Snapshot.SenderName,
			SenderEmail: campaign.Snapshot.SenderEmail,
			Category:    campaign.Snapshot.Category,
		}
	}
	if stats != nil {
		resp.Stats = &CampaignStatsView{
			Sent:      stats.Sent,
			Clicked:   stats.Clicked,
			ClickRate: stats.ClickRate,
		}
	}
	return resp
}
