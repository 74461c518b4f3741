package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/cms-service/internal/authz"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/pkg/util"
)

// StatusFilterAll is the sentinel that disables status filtering.
const StatusFilterAll = "all"

// ReportService coordinates submission and triage of reports.
type ReportService struct {
	reports      repository.ReportRepository
	institutions repository.InstitutionRepository
	dispatcher   events.Dispatcher
	now          func() int64
}

// ReportDependencies bundles collaborators.
type ReportDependencies struct {
	ReportRepo      repository.ReportRepository
	InstitutionRepo repository.InstitutionRepository
	Dispatcher      events.Dispatcher
	Now             func() int64
}

// ReportSubmitInput describes a submission payload.
type ReportSubmitInput struct {
	InstitutionID string
	Title         string
	Description   string
}

// ReportUpdateInput describes a triage payload. A nil Response leaves
// the stored manager response untouched.
type ReportUpdateInput struct {
	Status   string
	Response *string
}

// ReportListInput describes an institution-wide listing request.
type ReportListInput struct {
	InstitutionID string
	Status        string
	Limit         int
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	now := deps.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	return &ReportService{
		reports:      deps.ReportRepo,
		institutions: deps.InstitutionRepo,
		dispatcher:   deps.Dispatcher,
		now:          now,
	}
}

// Submit files a new pending report. The institution name and the
// author's role are snapshotted onto the document at this moment and
// never refreshed afterwards.
func (s *ReportService) Submit(ctx context.Context, p *domain.Principal, input ReportSubmitInput) (*domain.Report, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	details := map[string]any{}
	if title == "" {
		details["title"] = "is required"
	}
	if description == "" {
		details["description"] = "is required"
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("invalid report payload", details)
	}

	inst, err := s.institutions.GetByID(ctx, input.InstitutionID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if !authz.MaySubmitReport(p, inst.ID) {
		return nil, util.NewForbidden("only non-manager members may submit reports")
	}

	membership := p.MembershipFor(inst.ID)
	ts := s.now()
	report := &domain.Report{
		UserID:          p.UserID,
		InstitutionID:   inst.ID,
		InstitutionName: inst.Name,
		UserRole:        membership.Role,
		Title:           title,
		Description:     description,
		Status:          domain.ReportStatusPending,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	if _, err := s.reports.Create(ctx, report); err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReportSubmitted,
		ActorID:   p.UserID,
		Timestamp: time.Now(),
		Payload: events.ReportSubmittedPayload{
			ReportID:      report.ID,
			InstitutionID: inst.ID,
			Title:         title,
		},
	})
	return report, nil
}

// Get returns a single report, visible to the author and the managers
// of its institution.
func (s *ReportService) Get(ctx context.Context, p *domain.Principal, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, util.MapError(err)
	}
	inst, err := s.institutions.GetByID(ctx, report.InstitutionID)
	if err != nil {
		inst = nil
	}
	if !authz.MayReadReport(p, report, inst) {
		return nil, util.NewForbidden("not permitted to read this report")
	}
	return report, nil
}

// Update applies a triage decision. Status moves freely between the
// four lifecycle states; only managers of the report's institution may
// call this.
func (s *ReportService) Update(ctx context.Context, p *domain.Principal, reportID string, input ReportUpdateInput) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, util.MapError(err)
	}
	inst, err := s.institutions.GetByID(ctx, report.InstitutionID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if !authz.MayUpdateReport(p, inst) {
		return nil, util.NewForbidden("only institution managers may update reports")
	}

	status, ok := domain.ParseReportStatus(input.Status)
	if !ok {
		return nil, util.NewValidationError("invalid report status",
			map[string]any{"status": input.Status})
	}

	response := report.ManagerResponse
	if input.Response != nil {
		response = strings.TrimSpace(*input.Response)
	}

	oldStatus := report.Status
	updatedAt := s.now()
	if err := s.reports.UpdateTriage(ctx, reportID, status, response, updatedAt); err != nil {
		return nil, util.MapError(err)
	}

	report.Status = status
	report.ManagerResponse = response
	report.UpdatedAt = updatedAt

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReportUpdated,
		ActorID:   p.UserID,
		Timestamp: time.Now(),
		Payload: events.ReportUpdatedPayload{
			ReportID:  reportID,
			OldStatus: oldStatus,
			NewStatus: status,
			Responded: response != "",
		},
	})
	return report, nil
}

// ListMine returns the caller's reports within one institution, newest
// first.
func (s *ReportService) ListMine(ctx context.Context, p *domain.Principal, institutionID string) ([]domain.Report, error) {
	reports, err := s.reports.ListByAuthor(ctx, p.UserID, institutionID)
	if err != nil {
		return nil, util.MapError(err)
	}
	sortReportsNewestFirst(reports)
	return reports, nil
}

// ListAll returns an institution's reports for its managers, newest
// first, optionally filtered by status. The "all" sentinel and an
// empty filter both mean no filtering. Limit truncates after the sort.
func (s *ReportService) ListAll(ctx context.Context, p *domain.Principal, input ReportListInput) ([]domain.Report, error) {
	inst, err := s.institutions.GetByID(ctx, input.InstitutionID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if !authz.MayManageInstitution(p, inst) {
		return nil, util.NewForbidden("only institution managers may list all reports")
	}

	reports, err := s.reports.ListByInstitution(ctx, input.InstitutionID)
	if err != nil {
		return nil, util.MapError(err)
	}

	filter := strings.ToLower(strings.TrimSpace(input.Status))
	if filter != "" && filter != StatusFilterAll {
		status, ok := domain.ParseReportStatus(filter)
		if !ok {
			return nil, util.NewValidationError("invalid report status",
				map[string]any{"status": input.Status})
		}
		filtered := reports[:0]
		for _, r := range reports {
			if r.Status == status {
				filtered = append(filtered, r)
			}
		}
		reports = filtered
	}

	sortReportsNewestFirst(reports)
	if input.Limit > 0 && input.Limit < len(reports) {
		reports = reports[:input.Limit]
	}
	return reports, nil
}

// Statistics aggregates per-status counts for a managed institution.
func (s *ReportService) Statistics(ctx context.Context, p *domain.Principal, institutionID string) (*domain.ReportStatistics, error) {
	inst, err := s.institutions.GetByID(ctx, institutionID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if !authz.MayManageInstitution(p, inst) {
		return nil, util.NewForbidden("only institution managers may view statistics")
	}

	reports, err := s.reports.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, util.MapError(err)
	}

	stats := &domain.ReportStatistics{Total: len(reports)}
	for _, r := range reports {
		switch r.Status {
		case domain.ReportStatusPending:
			stats.Pending++
		case domain.ReportStatusInvestigating:
			stats.Investigating++
		case domain.ReportStatusVerified:
			stats.Verified++
		case domain.ReportStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// sortReportsNewestFirst orders by createdAt descending. Documents
// missing a timestamp decode as zero and sink to the end.
func sortReportsNewestFirst(reports []domain.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt > reports[j].CreatedAt
	})
}
