package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/dto"
	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/pkg/util"
)

// IdentityHandler manages registration, sessions, and the caller's
// own profile.
type IdentityHandler struct {
	identity    *service.IdentityService
	memberships *service.MembershipService
}

// NewIdentityHandler constructs handler.
func NewIdentityHandler(identity *service.IdentityService, memberships *service.MembershipService) *IdentityHandler {
	return &IdentityHandler{identity: identity, memberships: memberships}
}

// Register POST /auth/register.
func (h *IdentityHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	session, err := h.identity.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		UserType: domain.UserType(req.UserType),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(session)})
}

// Login POST /auth/login.
func (h *IdentityHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	session, err := h.identity.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(session)})
}

// Logout POST /auth/logout.
func (h *IdentityHandler) Logout(c *fiber.Ctx) error {
	claims, _ := auth.ClaimsFromContext(c)
	if err := h.identity.SignOut(c.Context(), claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"signed_out": true}})
}

// Me GET /auth/me.
func (h *IdentityHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	user, err := h.identity.CurrentUser(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userProfile(user)})
}

// Memberships GET /users/me/memberships.
func (h *IdentityHandler) Memberships(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	memberships, err := h.memberships.ListMemberships(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.Membership, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, membershipView(m))
	}
	return c.JSON(fiber.Map{"data": items})
}

func authResponse(session *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      userProfile(session.User),
	}
}

func userProfile(user *domain.User) dto.UserProfile {
	memberships := make([]dto.Membership, 0, len(user.Memberships))
	for _, m := range user.Memberships {
		memberships = append(memberships, membershipView(m))
	}
	return dto.UserProfile{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		UserType:    string(user.UserType),
		Memberships: memberships,
	}
}

func membershipView(m domain.Membership) dto.Membership {
	return dto.Membership{
		InstitutionID: m.InstitutionID,
		Role:          m.Role,
		IsManager:     m.IsManager,
	}
}
