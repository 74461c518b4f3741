package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/cms-service/internal/domain"
)

func TestJoinUsesCatalogCasing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher, Student")

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	m, err := f.membership.Join(ctx, user, inst.ID, " teacher ")
	require.NoError(t, err)
	assert.Equal(t, "Teacher", m.Role)
	assert.False(t, m.IsManager)

	reloaded := f.principal(t, user.UserID)
	require.NotNil(t, reloaded.MembershipFor(inst.ID))
}

func TestJoinRejectsManagerRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher")

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.membership.Join(ctx, user, inst.ID, "Principal")
	requireDomainErrorCode(t, err, "INVALID_ROLE")
}

func TestJoinRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher")

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.membership.Join(ctx, user, inst.ID, "Astronaut")
	requireDomainErrorCode(t, err, "INVALID_ROLE")
}

func TestJoinTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher, Student")

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.membership.Join(ctx, user, inst.ID, "Teacher")
	require.NoError(t, err)

	// Same principal rebuilt from the store, trying a different role.
	_, err = f.membership.Join(ctx, f.principal(t, user.UserID), inst.ID, "Student")
	requireDomainErrorCode(t, err, "ALREADY_JOINED")
}

func TestJoinMissingInstitution(t *testing.T) {
	f := newFixture(t)

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.membership.Join(context.Background(), user, "no-such-id", "Teacher")
	requireDomainErrorCode(t, err, "NOT_FOUND")
}

func TestJoinClosedInstitution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Catalog holds only the manager role, so nothing is joinable.
	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "")

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.membership.Join(ctx, user, inst.ID, "Principal")
	requireDomainErrorCode(t, err, "FORBIDDEN")
}

func TestListMembershipsAcrossInstitutions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	north := f.createInstitution(t, mgr, "North High", "Principal", "Teacher")
	east := f.createInstitution(t, mgr, "East High", "Head", "Coach")

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.membership.Join(ctx, user, north.ID, "Teacher")
	require.NoError(t, err)
	_, err = f.membership.Join(ctx, f.principal(t, user.UserID), east.ID, "Coach")
	require.NoError(t, err)

	memberships, err := f.membership.ListMemberships(ctx, user)
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	empty, err := f.membership.ListMemberships(ctx, f.register(t, "new@example.com", "New User", domain.UserTypeRegular))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
