package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/internal/store"
	"github.com/spec-kit/cms-service/pkg/util"
)

// fixture wires every service over one in-memory store so tests can
// drive full flows the way the HTTP layer would.
type fixture struct {
	store        *store.MemStore
	users        repository.UserRepository
	institutions repository.InstitutionRepository
	reports      repository.ReportRepository
	identity     *IdentityService
	institution  *InstitutionService
	membership   *MembershipService
	report       *ReportService
	clock        *fakeClock
}

type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 {
	c.now++
	return c.now
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := store.NewMemStore()
	users := repository.NewUserRepository(mem)
	institutions := repository.NewInstitutionRepository(mem)
	reports := repository.NewReportRepository(mem)
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	clock := &fakeClock{}

	f := &fixture{
		store:        mem,
		users:        users,
		institutions: institutions,
		reports:      reports,
		clock:        clock,
	}
	f.identity = NewIdentityService(IdentityDependencies{
		Provider: auth.NewCredentialProvider(mem, 4),
		Tokens:   auth.NewTokenManager("test-secret", 60),
		Revoked:  auth.NewRevocationList(nil),
		UserRepo: users,
		Logger:   logger,
	})
	f.institution = NewInstitutionService(InstitutionDependencies{
		InstitutionRepo: institutions,
		UserRepo:        users,
		Dispatcher:      dispatcher,
		Logger:          logger,
		Now:             clock.Now,
	})
	f.membership = NewMembershipService(MembershipDependencies{
		InstitutionRepo: institutions,
		UserRepo:        users,
		Dispatcher:      dispatcher,
	})
	f.report = NewReportService(ReportDependencies{
		ReportRepo:      reports,
		InstitutionRepo: institutions,
		Dispatcher:      dispatcher,
		Now:             clock.Now,
	})
	return f
}

func (f *fixture) register(t *testing.T, email, fullName string, userType domain.UserType) *domain.Principal {
	t.Helper()
	session, err := f.identity.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "secret123",
		FullName: fullName,
		UserType: userType,
	})
	require.NoError(t, err)
	return f.principal(t, session.User.ID)
}

// principal reloads the user so memberships written after registration
// are visible, mirroring the per-request rebuild in the middleware.
func (f *fixture) principal(t *testing.T, userID string) *domain.Principal {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	return &domain.Principal{
		UserID:      user.ID,
		UserType:    user.UserType,
		Memberships: user.Memberships,
	}
}

func (f *fixture) createInstitution(t *testing.T, p *domain.Principal, name, managerRole, roles string) *domain.Institution {
	t.Helper()
	inst, err := f.institution.Create(context.Background(), p, InstitutionCreateInput{
		Name:            name,
		ManagerRoleName: managerRole,
		Roles:           roles,
	})
	require.NoError(t, err)
	return inst
}

func requireDomainErrorCode(t *testing.T, err error, code string) *util.DomainError {
	t.Helper()
	require.Error(t, err)
	var derr *util.DomainError
	require.True(t, errors.As(err, &derr), "expected DomainError, got %v", err)
	require.Equal(t, code, derr.Code)
	return derr
}

// failingUserRepo forces membership writes to fail while delegating
// everything else.
type failingUserRepo struct {
	repository.UserRepository
}

func (r failingUserRepo) AppendMembership(context.Context, string, domain.Membership) error {
	return util.NewStoreError(errors.New("write refused"))
}
