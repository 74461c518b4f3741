package repository

import (
	"context"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/store"
)

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	ListByAuthor(ctx context.Context, userID, institutionID string) ([]domain.Report, error)
	ListByInstitution(ctx context.Context, institutionID string) ([]domain.Report, error)
	UpdateTriage(ctx context.Context, id string, status domain.ReportStatus, response string, updatedAt int64) error
}

type reportRepository struct {
	store store.Store
}

// NewReportRepository instantiates repository.
func NewReportRepository(s store.Store) ReportRepository {
	return &reportRepository{store: s}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) (string, error) {
	doc := store.Document{
		"userId":          report.UserID,
		"institutionId":   report.InstitutionID,
		"institutionName": report.InstitutionName,
		"userRole":        report.UserRole,
		"title":           report.Title,
		"description":     report.Description,
		"status":          string(report.Status),
		"managerResponse": report.ManagerResponse,
		"createdAt":       report.CreatedAt,
		"updatedAt":       report.UpdatedAt,
	}
	id, err := r.store.Add(ctx, store.CollectionReports, doc)
	if err != nil {
		return "", mapStoreError(err, "report")
	}
	report.ID = id
	return id, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	doc, err := r.store.Get(ctx, store.CollectionReports, id)
	if err != nil {
		return nil, mapStoreError(err, "report")
	}
	return decodeReport(id, doc), nil
}

func (r *reportRepository) ListByAuthor(ctx context.Context, userID, institutionID string) ([]domain.Report, error) {
	snapshots, err := r.store.Query(ctx, store.CollectionReports,
		store.WhereEqual("userId", userID),
		store.WhereEqual("institutionId", institutionID))
	if err != nil {
		return nil, mapStoreError(err, "report")
	}
	return decodeReports(snapshots), nil
}

func (r *reportRepository) ListByInstitution(ctx context.Context, institutionID string) ([]domain.Report, error) {
	snapshots, err := r.store.Query(ctx, store.CollectionReports,
		store.WhereEqual("institutionId", institutionID))
	if err != nil {
		return nil, mapStoreError(err, "report")
	}
	return decodeReports(snapshots), nil
}

// UpdateTriage mutates the only fields a manager may change.
func (r *reportRepository) UpdateTriage(ctx context.Context, id string, status domain.ReportStatus, response string, updatedAt int64) error {
	patch := store.Document{
		"status":          string(status),
		"managerResponse": response,
		"updatedAt":       updatedAt,
	}
	if err := r.store.Update(ctx, store.CollectionReports, id, patch); err != nil {
		return mapStoreError(err, "report")
	}
	return nil
}

func decodeReport(id string, doc store.Document) *domain.Report {
	return &domain.Report{
		ID:              id,
		UserID:          docString(doc, "userId"),
		InstitutionID:   docString(doc, "institutionId"),
		InstitutionName: docString(doc, "institutionName"),
		UserRole:        docString(doc, "userRole"),
		Title:           docString(doc, "title"),
		Description:     docString(doc, "description"),
		Status:          domain.ReportStatus(docString(doc, "status")),
		ManagerResponse: docString(doc, "managerResponse"),
		CreatedAt:       docInt64(doc, "createdAt"),
		UpdatedAt:       docInt64(doc, "updatedAt"),
	}
}

func decodeReports(snapshots []store.Snapshot) []domain.Report {
	out := make([]domain.Report, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, *decodeReport(snap.ID, snap.Data))
	}
	return out
}
