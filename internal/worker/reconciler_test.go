package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/internal/store"
)

func TestReconcileRepairsMissingManagerMembership(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	users := repository.NewUserRepository(mem)
	institutions := repository.NewInstitutionRepository(mem)

	user := &domain.User{ID: "u1", Email: "mgr@example.com", FullName: "Morgan Hale", UserType: domain.UserTypeManager}
	require.NoError(t, users.Create(ctx, user))

	// Institution exists but the membership bind never happened.
	inst := &domain.Institution{
		Name:            "North High",
		ManagerIDs:      []string{"u1"},
		ManagerRoleName: "Principal",
		Roles:           []string{"Principal", "Teacher"},
		CreatedAt:       time.Now().UnixMilli(),
	}
	_, err := institutions.Create(ctx, inst)
	require.NoError(t, err)

	r := NewReconciler(institutions, users, zap.NewNop())
	require.NoError(t, r.Reconcile(ctx, "u1"))

	repaired, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	m := repaired.MembershipFor(inst.ID)
	require.NotNil(t, m)
	assert.True(t, m.IsManager)
	assert.Equal(t, "Principal", m.Role)

	// Idempotent: a second pass adds nothing.
	require.NoError(t, r.Reconcile(ctx, "u1"))
	again, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, again.Memberships, 1)
}

func TestReconcileNoManagedInstitutions(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	users := repository.NewUserRepository(mem)
	institutions := repository.NewInstitutionRepository(mem)

	r := NewReconciler(institutions, users, zap.NewNop())
	require.NoError(t, r.Reconcile(ctx, "absent"))
}

func TestStartReconcilerSubscribesToUnboundCreations(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	users := repository.NewUserRepository(mem)
	institutions := repository.NewInstitutionRepository(mem)
	dispatcher := events.NewInMemoryDispatcher()

	user := &domain.User{ID: "u1", Email: "mgr@example.com", FullName: "Morgan Hale", UserType: domain.UserTypeManager}
	require.NoError(t, users.Create(ctx, user))

	inst := &domain.Institution{
		Name:            "North High",
		ManagerIDs:      []string{"u1"},
		ManagerRoleName: "Principal",
		Roles:           []string{"Principal"},
		CreatedAt:       time.Now().UnixMilli(),
	}
	_, err := institutions.Create(ctx, inst)
	require.NoError(t, err)

	StartReconciler(dispatcher, NewReconciler(institutions, users, zap.NewNop()))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:      events.EventInstitutionCreated,
		ActorID:   "u1",
		Timestamp: time.Now(),
		Payload: events.InstitutionCreatedPayload{
			InstitutionID:   inst.ID,
			MembershipBound: false,
		},
	}))

	repaired, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, repaired.MembershipFor(inst.ID))
}
