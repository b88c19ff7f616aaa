package domain

import "time"

// CampaignStatus enumerates lifecycle states for campaigns.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "DRAFT"
	CampaignStatusScheduled CampaignStatus = "SCHEDULED"
	CampaignStatusActive    CampaignStatus = "ACTIVE"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
	CampaignStatusCancelled CampaignStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusCompleted || s == CampaignStatusCancelled
}

// CanTransitionTo enforces the forward-only lifecycle
// DRAFT -> SCHEDULED -> ACTIVE -> {COMPLETED, CANCELLED}.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	switch s {
	case CampaignStatusDraft:
		return next == CampaignStatusScheduled || next == CampaignStatusActive || next == CampaignStatusCancelled
	case CampaignStatusScheduled:
		return next == CampaignStatusActive || next == CampaignStatusCancelled
	case CampaignStatusActive:
		return next == CampaignStatusCompleted || next == CampaignStatusCancelled
	default:
		return false
	}
}

// Campaign is the aggregate binding a template to a target group. After
// launch the campaign carries its own frozen copy of the template content
// and one recipient row per resolved target user.
type Campaign struct {
	ID          string
	Name        string
	TemplateID  string
	TargetGroup string
	Status      CampaignStatus
	Snapshot    *TemplateSnapshot
	ScheduledAt *time.Time
	LaunchedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recipient is a campaign's per-user tracking record. TrackingToken is
// globally unique across all campaigns. ClickedAt nil means not yet clicked;
// once set it is never overwritten. ClickCount audits duplicate hits, only
// the first click counts toward metrics.
type Recipient struct {
	ID            string
	CampaignID    string
	UserID        string
	Group         string
	TrackingToken string
	DeliveredAt   time.Time
	ClickedAt     *time.Time
	ClickCount    int
}
