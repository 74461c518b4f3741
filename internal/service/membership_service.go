package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/cms-service/internal/authz"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/pkg/util"
)

// MembershipService handles joining institutions and listing the
// caller's attachments.
type MembershipService struct {
	institutions repository.InstitutionRepository
	users        repository.UserRepository
	dispatcher   events.Dispatcher
}

// MembershipDependencies bundles collaborators.
type MembershipDependencies struct {
	InstitutionRepo repository.InstitutionRepository
	UserRepo        repository.UserRepository
	Dispatcher      events.Dispatcher
}

// NewMembershipService constructs the service.
func NewMembershipService(deps MembershipDependencies) *MembershipService {
	return &MembershipService{
		institutions: deps.InstitutionRepo,
		users:        deps.UserRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// Join attaches the caller to an institution under a joinable role.
// The stored catalog casing is what lands on the membership, whatever
// casing the caller typed.
func (s *MembershipService) Join(ctx context.Context, p *domain.Principal, institutionID, role string) (*domain.Membership, error) {
	inst, err := s.institutions.GetByID(ctx, institutionID)
	if err != nil {
		return nil, util.MapError(err)
	}

	if p.MembershipFor(institutionID) != nil {
		return nil, util.NewAlreadyJoined(institutionID)
	}
	if !authz.MayJoinInstitution(p, inst) {
		return nil, util.NewForbidden("institution is not open for joining")
	}

	requested := strings.TrimSpace(role)
	var canonical string
	for _, joinable := range inst.JoinableRoles() {
		if strings.EqualFold(joinable, requested) {
			canonical = joinable
			break
		}
	}
	if canonical == "" {
		return nil, util.NewInvalidRole(requested)
	}

	membership := domain.Membership{InstitutionID: institutionID, Role: canonical, IsManager: false}
	if err := s.users.AppendMembership(ctx, p.UserID, membership); err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventInstitutionJoined,
		ActorID:   p.UserID,
		Timestamp: time.Now(),
		Payload: events.InstitutionJoinedPayload{
			InstitutionID: institutionID,
			Role:          canonical,
		},
	})
	return &membership, nil
}

// ListMemberships returns the caller's memberships from a fresh read.
func (s *MembershipService) ListMemberships(ctx context.Context, p *domain.Principal) ([]domain.Membership, error) {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if user.Memberships == nil {
		return []domain.Membership{}, nil
	}
	return user.Memberships, nil
}
