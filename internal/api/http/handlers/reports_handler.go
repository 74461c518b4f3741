package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/dto"
	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/pkg/util"
)

// ReportsHandler manages report submission and triage endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Submit POST /institutions/:id/reports.
func (h *ReportsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	report, err := h.reports.Submit(c.Context(), principal, service.ReportSubmitInput{
		InstitutionID: c.Params("id"),
		Title:         req.Title,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportSummary(report)})
}

// Get GET /reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	report, err := h.reports.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummary(report)})
}

// Update PATCH /reports/:id.
func (h *ReportsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return util.NewValidationError("status required", nil)
	}

	report, err := h.reports.Update(c.Context(), principal, c.Params("id"), service.ReportUpdateInput{
		Status:   req.Status,
		Response: req.Response,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummary(report)})
}

// ListMine GET /institutions/:id/my-reports.
func (h *ReportsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	reports, err := h.reports.ListMine(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummaries(reports)})
}

// ListAll GET /institutions/:id/reports.
func (h *ReportsHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return util.NewValidationError("invalid limit", map[string]any{"limit": raw})
		}
		limit = parsed
	}

	reports, err := h.reports.ListAll(c.Context(), principal, service.ReportListInput{
		InstitutionID: c.Params("id"),
		Status:        c.Query("status"),
		Limit:         limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummaries(reports)})
}

// Statistics GET /institutions/:id/reports/stats.
func (h *ReportsHandler) Statistics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	stats, err := h.reports.Statistics(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReportStatisticsResponse{
		Total:         stats.Total,
		Pending:       stats.Pending,
		Investigating: stats.Investigating,
		Verified:      stats.Verified,
		Rejected:      stats.Rejected,
	}})
}

func reportSummary(r *domain.Report) dto.ReportSummary {
	return dto.ReportSummary{
		ID:              r.ID,
		UserID:          r.UserID,
		InstitutionID:   r.InstitutionID,
		InstitutionName: r.InstitutionName,
		UserRole:        r.UserRole,
		Title:           r.Title,
		Description:     r.Description,
		Status:          string(r.Status),
		ManagerResponse: r.ManagerResponse,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func reportSummaries(reports []domain.Report) []dto.ReportSummary {
	items := make([]dto.ReportSummary, 0, len(reports))
	for i := range reports {
		items = append(items, reportSummary(&reports[i]))
	}
	return items
}
