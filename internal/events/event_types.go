package events

import (
	"time"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCampaignLaunched  EventType = "campaign_launched"
	EventCampaignCancelled EventType = "campaign_cancelled"
	EventCampaignCompleted EventType = "campaign_completed"
	EventRecipientClicked  EventType = "recipient_clicked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CampaignID string      `json:"campaign_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CampaignLaunchedPayload payload.
type CampaignLaunchedPayload struct {
	Name           string     `json:"name"`
	TargetGroup    string     `json:"target_group"`
	RecipientCount int        `json:"recipient_count"`
	LaunchedAt     *time.Time `json:"launched_at,omitempty"`
}

// CampaignStatusPayload payload for cancel/complete.
type CampaignStatusPayload struct {
	OldStatus domain.CampaignStatus `json:"old_status"`
	NewStatus domain.CampaignStatus `json:"new_status"`
}

// RecipientClickedPayload payload; emitted only for first clicks.
type RecipientClickedPayload struct {
	UserID    string    `json:"user_id"`
	ClickedAt time.Time `json:"clicked_at"`
}
