package domain

import "time"

// UserStatus represents lifecycle states for a target user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

// User is the domain model for accounts enrolled in awareness training.
// A user may both sign in to the dashboard and appear as a campaign target.
// Users referenced by campaign recipients are never hard-deleted; they are
// disabled instead.
type User struct {
	ID           string
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Group        string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the user counts toward campaign targeting.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
