package dto

import (
	"time"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=64"`
	FullName        string `json:"full_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Group           string `json:"group"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Group    string `json:"group"`
	Status   string `json:"status"`
}

// ImportUsersRequest payload for bulk user import.
type ImportUsersRequest struct {
	Users []ImportUserRow `json:"users" validate:"required,min=1,dive"`
}

// ImportUserRow is one row of a bulk import.
type ImportUserRow struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Group    string `json:"group"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Group:    user.Group,
		Status:   string(user.Status),
	}
}
