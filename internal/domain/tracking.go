package domain

// ClickResult classifies the outcome of resolving a tracking hit.
type ClickResult string

const (
	ClickResultFirstClick     ClickResult = "FIRST_CLICK"
	ClickResultAlreadyClicked ClickResult = "ALREADY_CLICKED"
	ClickResultTokenNotFound  ClickResult = "TOKEN_NOT_FOUND"
)

// ClickOutcome is returned by the tracking recorder. CampaignID and UserID
// are empty when the token is unknown. The outcome is never surfaced to the
// clicking party; the tracking endpoint renders the same landing response
// regardless.
type ClickOutcome struct {
	Result     ClickResult
	CampaignID string
	UserID     string
}
