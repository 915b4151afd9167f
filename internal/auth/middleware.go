package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/repository"
	"github.com/marknotes/notes-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Exactly one of User or
// Admin is set, matching the subject type.
type Principal struct {
	SubjectType domain.SubjectType
	User        *domain.UserProfile
	Admin       *domain.Admin
	TokenID     string
	Claims      *Claims
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenManager
	revoker TokenRevoker
	users   repository.UserRepository
	admin   domain.Admin
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, revoker TokenRevoker, users repository.UserRepository, admin domain.Admin) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revoker: revoker, users: users, admin: admin}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthenticated("invalid token")
	}

	revoked, err := m.revoker.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return util.NewInternalError(err)
	}
	if revoked {
		return util.NewUnauthenticated("token revoked")
	}

	principal := &Principal{SubjectType: claims.Subject, TokenID: claims.ID, Claims: claims}

	switch claims.Subject {
	case domain.SubjectTypeUser:
		user, err := m.users.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return util.NewUnauthenticated("user not found")
			}
			return util.NewInternalError(err)
		}
		// A profile rejected or deleted after token issue loses access.
		if user.Status != domain.UserStatusApproved {
			return util.NewUnauthenticated("account not approved")
		}
		principal.User = user
	case domain.SubjectTypeAdmin:
		if claims.SubjectID != m.admin.ID {
			return util.NewUnauthenticated("unknown admin")
		}
		admin := m.admin
		principal.Admin = &admin
	default:
		return util.NewUnauthenticated("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
