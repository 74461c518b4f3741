package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/repository"
)

// Reconciler repairs manager profiles left inconsistent by a partial
// institution creation: the institution document exists but the
// manager membership never landed on the user document.
type Reconciler struct {
	institutions repository.InstitutionRepository
	users        repository.UserRepository
	logger       *zap.Logger
}

// NewReconciler constructs the reconciler.
func NewReconciler(institutions repository.InstitutionRepository, users repository.UserRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{institutions: institutions, users: users, logger: logger}
}

// Reconcile re-derives the user's manager memberships from the
// institutions that list them as manager, unioning any that are
// missing. The union write is idempotent, so rerunning is safe.
func (r *Reconciler) Reconcile(ctx context.Context, userID string) error {
	managed, err := r.institutions.ListManagedBy(ctx, userID)
	if err != nil {
		return err
	}
	if len(managed) == 0 {
		return nil
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	for _, inst := range managed {
		if user.MembershipFor(inst.ID) != nil {
			continue
		}
		membership := domain.Membership{
			InstitutionID: inst.ID,
			Role:          inst.ManagerRoleName,
			IsManager:     true,
		}
		if err := r.users.AppendMembership(ctx, userID, membership); err != nil {
			r.logger.Error("membership repair failed",
				zap.String("user_id", userID),
				zap.String("institution_id", inst.ID),
				zap.Error(err))
			return err
		}
		r.logger.Info("repaired manager membership",
			zap.String("user_id", userID),
			zap.String("institution_id", inst.ID))
	}
	return nil
}

// StartReconciler subscribes the reconciler to creation events so a
// failed membership bind is retried as soon as the event fires.
func StartReconciler(dispatcher events.Dispatcher, reconciler *Reconciler) {
	if dispatcher == nil || reconciler == nil {
		return
	}
	dispatcher.Subscribe(events.EventInstitutionCreated, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.InstitutionCreatedPayload)
		if !ok || payload.MembershipBound {
			return nil
		}
		return reconciler.Reconcile(ctx, event.ActorID)
	})
}
