package repository

import (
	"context"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/store"
)

// UserRepository encapsulates user document persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	AppendMembership(ctx context.Context, userID string, m domain.Membership) error
}

type userRepository struct {
	store store.Store
}

// NewUserRepository instantiates repository.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

// Create writes the full user document under the provider-assigned id.
// The legacy scalar mirrors start null, matching pre-migration readers.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	doc := store.Document{
		"userId":        user.ID,
		"email":         user.Email,
		"fullName":      user.FullName,
		"userType":      string(user.UserType),
		"memberships":   []any{},
		"roleName":      nil,
		"institutionId": nil,
		"userRole":      nil,
	}
	if err := r.store.Set(ctx, store.CollectionUsers, user.ID, doc); err != nil {
		return mapStoreError(err, "user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := r.store.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, mapStoreError(err, "user")
	}
	return decodeUser(id, doc), nil
}

// AppendMembership unions the membership onto the user document and
// refreshes the write-only legacy mirrors. The union is idempotent, so
// a retry after partial failure is safe.
func (r *userRepository) AppendMembership(ctx context.Context, userID string, m domain.Membership) error {
	entry := map[string]any{
		"institutionId": m.InstitutionID,
		"role":          m.Role,
		"isManager":     m.IsManager,
	}
	patch := store.Document{
		"memberships":   store.ArrayUnion(entry),
		"institutionId": m.InstitutionID,
	}
	if m.IsManager {
		patch["roleName"] = m.Role
	} else {
		patch["userRole"] = m.Role
	}
	if err := r.store.Update(ctx, store.CollectionUsers, userID, patch); err != nil {
		return mapStoreError(err, "user")
	}
	return nil
}

func decodeUser(id string, doc store.Document) *domain.User {
	user := &domain.User{
		ID:       id,
		Email:    docString(doc, "email"),
		FullName: docString(doc, "fullName"),
		UserType: domain.UserType(docString(doc, "userType")),
	}
	for _, entry := range docSlice(doc, "memberships") {
		user.Memberships = append(user.Memberships, domain.Membership{
			InstitutionID: docString(entry, "institutionId"),
			Role:          docString(entry, "role"),
			IsManager:     docBool(entry, "isManager"),
		})
	}
	return user
}
