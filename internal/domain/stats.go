package domain

// CampaignStats holds metrics derived live from recipient rows.
type CampaignStats struct {
	CampaignID string  `json:"campaign_id"`
	Sent       int     `json:"sent"`
	Clicked    int     `json:"clicked"`
	ClickRate  float64 `json:"click_rate"`
}

// GroupStats is the per-group slice of a campaign breakdown.
type GroupStats struct {
	Sent    int `json:"sent"`
	Clicked int `json:"clicked"`
}

// OrganizationStats aggregates across all users, campaigns and templates.
type OrganizationStats struct {
	TotalUsers       int     `json:"total_users"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	OverallClickRate float64 `json:"overall_click_rate"`
	TotalTemplates   int     `json:"total_templates"`
}

// ClickRate computes clicked/sent, guarding the empty-campaign case.
func ClickRate(clicked, sent int) float64 {
	if sent == 0 {
		return 0
	}
	return float64(clicked) / float64(sent)
}
