package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/secureguard/phishsim-service/internal/auth"
	"github.com/secureguard/phishsim-service/internal/config"
	"github.com/secureguard/phishsim-service/internal/domain"
	"github.com/secureguard/phishsim-service/internal/repository"
	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

// IdentityService coordinates account creation, credential checks and
// target-user administration.
type IdentityService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.AuthConfig, users repository.UserRepository) *IdentityService {
	return &IdentityService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *IdentityService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// UserInput describes user creation payload.
type UserInput struct {
	Username string
	FullName string
	Email    string
	Password string
	Group    string
}

// ImportResult reports the outcome of a bulk user import.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Register creates a new account, persisting it before returning. Fails with
// a DUPLICATE_USER conflict when the username or email is taken.
func (s *IdentityService) Register(ctx context.Context, input UserInput) (*domain.User, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: hash,
		Group:        strings.TrimSpace(input.Group),
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username and issues an access token. Credentials
// are only ever compared through the bcrypt hash.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(strings.ToLower(username)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, "", time.Time{}, err
	}
	if !user.IsActive() {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// List returns every user.
func (s *IdentityService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Deactivate soft-deletes a user. Accounts referenced by campaign
// recipients keep their row; only the status flips.
func (s *IdentityService) Deactivate(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	if user.Status == domain.UserStatusDisabled {
		return nil
	}
	user.Status = domain.UserStatusDisabled
	return s.users.Update(ctx, user)
}

// Import bulk-creates users, skipping duplicates row by row.
func (s *IdentityService) Import(ctx context.Context, inputs []UserInput) (*ImportResult, error) {
	result := &ImportResult{}
	for _, input := range inputs {
		if _, err := s.Register(ctx, input); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, input.Username+": "+apperrors.ToDomainError(err).Message)
			continue
		}
		result.Created++
	}
	return result, nil
}

func (s *IdentityService) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return apperrors.NewConflict(apperrors.CodeDuplicateUser, "username already registered", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict(apperrors.CodeDuplicateUser, "email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}
