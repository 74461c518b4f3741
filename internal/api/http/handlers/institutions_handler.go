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

// InstitutionsHandler manages institution endpoints.
type InstitutionsHandler struct {
	institutions *service.InstitutionService
	memberships  *service.MembershipService
}

// NewInstitutionsHandler constructs handler.
func NewInstitutionsHandler(institutions *service.InstitutionService, memberships *service.MembershipService) *InstitutionsHandler {
	return &InstitutionsHandler{institutions: institutions, memberships: memberships}
}

// Create POST /institutions.
func (h *InstitutionsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateInstitutionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	inst, err := h.institutions.Create(c.Context(), principal, service.InstitutionCreateInput{
		Name:            req.Name,
		ManagerRoleName: req.ManagerRoleName,
		Roles:           req.Roles,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": institutionSummary(inst)})
}

// List GET /institutions.
func (h *InstitutionsHandler) List(c *fiber.Ctx) error {
	insts, err := h.institutions.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": institutionSummaries(insts)})
}

// Search GET /institutions/search?name=.
func (h *InstitutionsHandler) Search(c *fiber.Ctx) error {
	inst, err := h.institutions.FindByName(c.Context(), c.Query("name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": institutionSummary(inst)})
}

// Managed GET /institutions/managed.
func (h *InstitutionsHandler) Managed(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	insts, err := h.institutions.ListManagedBy(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": institutionSummaries(insts)})
}

// Get GET /institutions/:id.
func (h *InstitutionsHandler) Get(c *fiber.Ctx) error {
	inst, err := h.institutions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": institutionSummary(inst)})
}

// AddRoles POST /institutions/:id/roles.
func (h *InstitutionsHandler) AddRoles(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.AddRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	result, err := h.institutions.AddRoles(c.Context(), principal, c.Params("id"), req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RoleAdditionResponse{
		Added:      result.Added,
		Duplicates: result.Duplicates,
	}})
}

// Join POST /institutions/:id/join.
func (h *InstitutionsHandler) Join(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.JoinInstitutionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Role == "" {
		return util.NewValidationError("role required", nil)
	}

	membership, err := h.memberships.Join(c.Context(), principal, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": membershipView(*membership)})
}

func institutionSummary(inst *domain.Institution) dto.InstitutionSummary {
	return dto.InstitutionSummary{
		ID:              inst.ID,
		Name:            inst.Name,
		ManagerIDs:      inst.ManagerIDs,
		ManagerRoleName: inst.ManagerRoleName,
		Roles:           inst.Roles,
		JoinableRoles:   inst.JoinableRoles(),
		CreatedAt:       inst.CreatedAt,
	}
}

func institutionSummaries(insts []domain.Institution) []dto.InstitutionSummary {
	items := make([]dto.InstitutionSummary, 0, len(insts))
	for i := range insts {
		items = append(items, institutionSummary(&insts[i]))
	}
	return items
}
