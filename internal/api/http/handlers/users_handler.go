package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/secureguard/phishsim-service/internal/api/dto"
	"github.com/secureguard/phishsim-service/internal/service"
	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

// UsersHandler exposes target-user administration endpoints.
type UsersHandler struct {
	identity *service.IdentityService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(identity *service.IdentityService) *UsersHandler {
	return &UsersHandler{identity: identity}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.identity.List(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Import handles POST /api/users/import.
func (h *UsersHandler) Import(c *fiber.Ctx) error {
	var req dto.ImportUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	inputs := make([]service.UserInput, 0, len(req.Users))
	for _, row := range req.Users {
		inputs = append(inputs, service.UserInput{
			Username: row.Username,
			FullName: row.FullName,
			Email:    row.Email,
			Password: row.Password,
			Group:    row.Group,
		})
	}

	result, err := h.identity.Import(c.Context(), inputs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Deactivate handles DELETE /api/users/:id (soft delete).
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.identity.Deactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
