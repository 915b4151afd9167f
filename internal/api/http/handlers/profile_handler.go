package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/marknotes/notes-service/internal/api/dto"
	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/service"
	"github.com/marknotes/notes-service/pkg/util"
)

// ProfileHandler exposes the authenticated user's profile operations. All
// routes authorize by matching the session identity to the :id parameter.
type ProfileHandler struct {
	auth *service.AuthService
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: authService}
}

// Get handles GET /profile/:id.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthenticated("authentication required")
	}

	user, err := h.auth.GetProfile(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"profile": dto.NewUserView(user)},
	})
}

// Update handles PATCH /profile/:id.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthenticated("authentication required")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), principal.User.ID, c.Params("id"),
		service.ProfileUpdateInput{FullName: req.FullName})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"profile": dto.NewUserView(user)},
	})
}

// ChangePassword handles POST /profile/:id/password.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthenticated("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return util.NewValidationError("current_password and new_password required", nil)
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal.User.ID, c.Params("id"),
		req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
