package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/marknotes/notes-service/internal/api/dto"
	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/service"
	"github.com/marknotes/notes-service/pkg/util"
)

// AdminHandler exposes the admin session and user-approval endpoints.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	admin, token, exp, err := h.admin.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": dto.NewAdminView(admin),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthenticated("authentication required")
	}

	if err := h.admin.Logout(c.UserContext(), principal.TokenID, principal.Claims.ExpiresAt.Time); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /admin/me.
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return util.NewUnauthenticated("authentication required")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"admin": dto.NewAdminView(principal.Admin)},
	})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"users": dto.NewUserProfileListResponse(users)},
	})
}

// ApproveUser handles POST /admin/users/:id/approve.
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	user, err := h.admin.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserProfileResponse(user)},
	})
}

// RejectUser handles POST /admin/users/:id/reject.
func (h *AdminHandler) RejectUser(c *fiber.Ctx) error {
	user, err := h.admin.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserProfileResponse(user)},
	})
}

// CreateUser handles POST /admin/users; the profile starts approved.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	user, err := h.admin.CreateUser(c.UserContext(), req.Email, req.FullName, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserProfileResponse(user)},
	})
}

// ChangeUserPassword handles POST /admin/users/:id/password.
func (h *AdminHandler) ChangeUserPassword(c *fiber.Ctx) error {
	var req dto.AdminChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.NewPassword == "" {
		return util.NewValidationError("new_password required", nil)
	}

	if err := h.admin.ChangeUserPassword(c.UserContext(), c.Params("id"), req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// DeleteUser handles DELETE /admin/users/:id. Removal is idempotent.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.admin.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
