package repository

import (
	"context"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/store"
)

// InstitutionRepository encapsulates institution persistence.
type InstitutionRepository interface {
	Create(ctx context.Context, inst *domain.Institution) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Institution, error)
	List(ctx context.Context) ([]domain.Institution, error)
	ListManagedBy(ctx context.Context, userID string) ([]domain.Institution, error)
	AddRoles(ctx context.Context, id string, roles []string) error
}

type institutionRepository struct {
	store store.Store
}

// NewInstitutionRepository instantiates repository.
func NewInstitutionRepository(s store.Store) InstitutionRepository {
	return &institutionRepository{store: s}
}

// Create inserts the institution document. The scalar managerId mirror
// is written for pre-migration readers; managerIds is authoritative.
func (r *institutionRepository) Create(ctx context.Context, inst *domain.Institution) (string, error) {
	managerIDs := make([]any, 0, len(inst.ManagerIDs))
	for _, id := range inst.ManagerIDs {
		managerIDs = append(managerIDs, id)
	}
	roles := make([]any, 0, len(inst.Roles))
	for _, role := range inst.Roles {
		roles = append(roles, role)
	}
	doc := store.Document{
		"institutionName": inst.Name,
		"managerIds":      managerIDs,
		"managerId":       inst.ManagerIDs[0],
		"managerRoleName": inst.ManagerRoleName,
		"roles":           roles,
		"createdAt":       inst.CreatedAt,
	}
	id, err := r.store.Add(ctx, store.CollectionInstitutions, doc)
	if err != nil {
		return "", mapStoreError(err, "institution")
	}
	inst.ID = id
	return id, nil
}

func (r *institutionRepository) GetByID(ctx context.Context, id string) (*domain.Institution, error) {
	doc, err := r.store.Get(ctx, store.CollectionInstitutions, id)
	if err != nil {
		return nil, mapStoreError(err, "institution")
	}
	return decodeInstitution(id, doc), nil
}

func (r *institutionRepository) List(ctx context.Context) ([]domain.Institution, error) {
	snapshots, err := r.store.Query(ctx, store.CollectionInstitutions)
	if err != nil {
		return nil, mapStoreError(err, "institution")
	}
	return decodeInstitutions(snapshots), nil
}

func (r *institutionRepository) ListManagedBy(ctx context.Context, userID string) ([]domain.Institution, error) {
	snapshots, err := r.store.Query(ctx, store.CollectionInstitutions,
		store.WhereArrayContains("managerIds", userID))
	if err != nil {
		return nil, mapStoreError(err, "institution")
	}
	return decodeInstitutions(snapshots), nil
}

// AddRoles unions the labels into the role catalog. The store-native
// union keeps concurrent additions from losing entries.
func (r *institutionRepository) AddRoles(ctx context.Context, id string, roles []string) error {
	values := make([]any, 0, len(roles))
	for _, role := range roles {
		values = append(values, role)
	}
	patch := store.Document{"roles": store.ArrayUnion(values...)}
	if err := r.store.Update(ctx, store.CollectionInstitutions, id, patch); err != nil {
		return mapStoreError(err, "institution")
	}
	return nil
}

func decodeInstitution(id string, doc store.Document) *domain.Institution {
	return &domain.Institution{
		ID:              id,
		Name:            docString(doc, "institutionName"),
		ManagerIDs:      docStringSlice(doc, "managerIds"),
		ManagerRoleName: docString(doc, "managerRoleName"),
		Roles:           docStringSlice(doc, "roles"),
		CreatedAt:       docInt64(doc, "createdAt"),
	}
}

func decodeInstitutions(snapshots []store.Snapshot) []domain.Institution {
	out := make([]domain.Institution, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, *decodeInstitution(snap.ID, snap.Data))
	}
	return out
}
