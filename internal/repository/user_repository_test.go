package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/store"
)

func TestUserRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemStore())

	user := &domain.User{ID: "u1", Email: "sam@example.com", FullName: "Sam Lee", UserType: domain.UserTypeRegular}
	require.NoError(t, repo.Create(ctx, user))

	loaded, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", loaded.Email)
	assert.Equal(t, domain.UserTypeRegular, loaded.UserType)
	assert.Empty(t, loaded.Memberships)

	_, err = repo.GetByID(ctx, "missing")
	assert.Error(t, err)
}

func TestAppendMembershipIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemStore())

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "sam@example.com", FullName: "Sam Lee", UserType: domain.UserTypeRegular}))

	m := domain.Membership{InstitutionID: "i1", Role: "Teacher"}
	require.NoError(t, repo.AppendMembership(ctx, "u1", m))
	require.NoError(t, repo.AppendMembership(ctx, "u1", m))

	loaded, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded.Memberships, 1)
	assert.Equal(t, "Teacher", loaded.Memberships[0].Role)
}

func TestAppendMembershipAccumulatesAcrossInstitutions(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemStore())

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "sam@example.com", FullName: "Sam Lee", UserType: domain.UserTypeManager}))

	require.NoError(t, repo.AppendMembership(ctx, "u1", domain.Membership{InstitutionID: "i1", Role: "Principal", IsManager: true}))
	require.NoError(t, repo.AppendMembership(ctx, "u1", domain.Membership{InstitutionID: "i2", Role: "Coach"}))

	loaded, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded.Memberships, 2)
	assert.True(t, loaded.MembershipFor("i1").IsManager)
	assert.False(t, loaded.MembershipFor("i2").IsManager)
}
