package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
)

func TestCreateInstitutionBindsManagerMembership(t *testing.T) {
	f := newFixture(t)

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher, Student")

	assert.Equal(t, []string{"Principal", "Teacher", "Student"}, inst.Roles)
	assert.Equal(t, []string{mgr.UserID}, inst.ManagerIDs)

	reloaded := f.principal(t, mgr.UserID)
	m := reloaded.MembershipFor(inst.ID)
	require.NotNil(t, m)
	assert.True(t, m.IsManager)
	assert.Equal(t, "Principal", m.Role)
}

func TestCreateInstitutionCollapsesCatalogDuplicates(t *testing.T) {
	f := newFixture(t)

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", " principal ,Teacher, teacher , ")

	assert.Equal(t, []string{"Principal", "Teacher"}, inst.Roles)
}

func TestCreateInstitutionForbiddenForRegular(t *testing.T) {
	f := newFixture(t)

	user := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.institution.Create(context.Background(), user, InstitutionCreateInput{
		Name:            "North High",
		ManagerRoleName: "Principal",
	})
	requireDomainErrorCode(t, err, "FORBIDDEN")
}

func TestCreateInstitutionValidation(t *testing.T) {
	f := newFixture(t)

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	_, err := f.institution.Create(context.Background(), mgr, InstitutionCreateInput{
		Name:  "  ",
		Roles: " , ",
	})
	derr := requireDomainErrorCode(t, err, "VALIDATION_FAILED")
	assert.Contains(t, derr.Details, "name")
	assert.Contains(t, derr.Details, "roles")
}

func TestCreateInstitutionManagerRoleFromFirstEntry(t *testing.T) {
	f := newFixture(t)

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst, err := f.institution.Create(context.Background(), mgr, InstitutionCreateInput{
		Name:  "Acme",
		Roles: "Owner, HR, Ops",
	})
	require.NoError(t, err)

	assert.Equal(t, "Owner", inst.ManagerRoleName)
	assert.Equal(t, []string{"Owner", "HR", "Ops"}, inst.Roles)
	assert.Equal(t, []string{"HR", "Ops"}, inst.JoinableRoles())

	reloaded := f.principal(t, mgr.UserID)
	m := reloaded.MembershipFor(inst.ID)
	require.NotNil(t, m)
	assert.Equal(t, "Owner", m.Role)
	assert.True(t, m.IsManager)
}

func TestCreateInstitutionPartialSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)

	broken := NewInstitutionService(InstitutionDependencies{
		InstitutionRepo: f.institutions,
		UserRepo:        failingUserRepo{f.users},
		Dispatcher:      events.NewInMemoryDispatcher(),
		Logger:          zap.NewNop(),
		Now:             f.clock.Now,
	})

	_, err := broken.Create(ctx, mgr, InstitutionCreateInput{
		Name:            "North High",
		ManagerRoleName: "Principal",
	})
	derr := requireDomainErrorCode(t, err, "PARTIAL_SUCCESS")

	// The institution document survived the failed membership bind.
	id, ok := derr.Details["institution_id"].(string)
	require.True(t, ok)
	inst, getErr := f.institutions.GetByID(ctx, id)
	require.NoError(t, getErr)
	assert.Equal(t, "North High", inst.Name)
}

func TestAddRolesPartitionsSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher")

	result, err := f.institution.AddRoles(ctx, mgr, inst.ID, "Student, teacher, Janitor")
	require.NoError(t, err)
	assert.Equal(t, []string{"Student", "Janitor"}, result.Added)
	assert.Equal(t, []string{"teacher"}, result.Duplicates)

	reloaded, err := f.institution.Get(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Principal", "Teacher", "Student", "Janitor"}, reloaded.Roles)
}

func TestAddRolesAllDuplicatesFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher")

	_, err := f.institution.AddRoles(ctx, mgr, inst.ID, "teacher, PRINCIPAL")
	derr := requireDomainErrorCode(t, err, "DUPLICATE_ROLES")
	assert.Equal(t, []string{"teacher", "PRINCIPAL"}, derr.Details["duplicates"])

	// Nothing was written.
	reloaded, err := f.institution.Get(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Principal", "Teacher"}, reloaded.Roles)
}

func TestAddRolesForbiddenForNonManager(t *testing.T) {
	f := newFixture(t)

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "Teacher")

	other := f.register(t, "sam@example.com", "Sam Lee", domain.UserTypeRegular)
	_, err := f.institution.AddRoles(context.Background(), other, inst.ID, "Janitor")
	requireDomainErrorCode(t, err, "FORBIDDEN")
}

func TestFindByNameIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	inst := f.createInstitution(t, mgr, "North High", "Principal", "")

	found, err := f.institution.FindByName(ctx, "north high")
	require.NoError(t, err)
	assert.Equal(t, inst.ID, found.ID)

	_, err = f.institution.FindByName(ctx, "Nowhere High")
	requireDomainErrorCode(t, err, "NOT_FOUND")
}

func TestListManagedBy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mgr := f.register(t, "mgr@example.com", "Morgan Hale", domain.UserTypeManager)
	other := f.register(t, "mgr2@example.com", "Alex Cruz", domain.UserTypeManager)

	f.createInstitution(t, mgr, "North High", "Principal", "")
	f.createInstitution(t, mgr, "East High", "Principal", "")
	f.createInstitution(t, other, "West High", "Principal", "")

	managed, err := f.institution.ListManagedBy(ctx, mgr)
	require.NoError(t, err)
	require.Len(t, managed, 2)

	names := []string{managed[0].Name, managed[1].Name}
	assert.ElementsMatch(t, []string{"North High", "East High"}, names)
}
