package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware validates bearer tokens and loads principals. The user
// document is re-read on every request so membership changes take
// effect without re-login.
type Middleware struct {
	tokens  *TokenManager
	revoked *RevocationList
	users   repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, revoked *RevocationList, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, revoked: revoked, users: users}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}

	revoked, err := m.revoked.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		return util.MapError(err)
	}
	if revoked {
		return util.NewUnauthorized("token has been revoked")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		derr := util.ToDomainError(err)
		if derr.Code == "NOT_FOUND" {
			return util.NewMissingProfile()
		}
		return derr
	}

	principal := &domain.Principal{
		UserID:      user.ID,
		UserType:    user.UserType,
		Memberships: user.Memberships,
	}
	c.Locals(principalKey, principal)
	c.Locals(tokenClaimsKey, claims)
	return c.Next()
}

const tokenClaimsKey = "auth_token_claims"

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}

// ClaimsFromContext retrieves the parsed token claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(tokenClaimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
