package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/pkg/util"
)

// RequireUser ensures an approved end-user is authenticated.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return util.NewUnauthenticated("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeUser || principal.User == nil {
			return util.NewUnauthorized("end-user session required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures an admin session; user tokens never pass.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return util.NewUnauthenticated("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
			return util.NewUnauthorized("admin session required")
		}
		return c.Next()
	}
}
