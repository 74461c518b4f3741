package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/authz"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/pkg/util"
)

// InstitutionService coordinates institution lifecycle and the role
// catalog.
type InstitutionService struct {
	institutions repository.InstitutionRepository
	users        repository.UserRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	now          func() int64
}

// InstitutionDependencies bundles collaborators.
type InstitutionDependencies struct {
	InstitutionRepo repository.InstitutionRepository
	UserRepo        repository.UserRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	Now             func() int64
}

// InstitutionCreateInput describes the creation payload. Roles is the
// raw comma-separated catalog; when ManagerRoleName is blank the first
// parsed role is the manager role.
type InstitutionCreateInput struct {
	Name            string
	ManagerRoleName string
	Roles           string
}

// RoleAdditionResult partitions an AddRoles submission.
type RoleAdditionResult struct {
	Added      []string
	Duplicates []string
}

// NewInstitutionService constructs the service.
func NewInstitutionService(deps InstitutionDependencies) *InstitutionService {
	now := deps.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	return &InstitutionService{
		institutions: deps.InstitutionRepo,
		users:        deps.UserRepo,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
		now:          now,
	}
}

// Create provisions an institution with the caller as sole manager,
// then binds the manager membership onto the caller's profile. The
// membership write can fail after the institution exists; that case is
// reported as partial success naming the institution id.
func (s *InstitutionService) Create(ctx context.Context, p *domain.Principal, input InstitutionCreateInput) (*domain.Institution, error) {
	if !authz.MayCreateInstitution(p) {
		return nil, util.NewForbidden("only managers may create institutions")
	}

	name := strings.TrimSpace(input.Name)
	managerRole := strings.TrimSpace(input.ManagerRoleName)
	submitted := parseRoleList(input.Roles)
	if managerRole == "" && len(submitted) > 0 {
		managerRole = submitted[0]
		submitted = submitted[1:]
	}

	details := map[string]any{}
	if name == "" {
		details["name"] = "is required"
	}
	if managerRole == "" {
		details["roles"] = "at least one role is required"
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("invalid institution payload", details)
	}

	// The manager role leads the catalog; submitted labels that collide
	// with it or each other are silently collapsed, first casing wins.
	extra, _ := partitionRoles([]string{managerRole}, submitted)
	roles := append([]string{managerRole}, extra...)

	inst := &domain.Institution{
		Name:            name,
		ManagerIDs:      []string{p.UserID},
		ManagerRoleName: managerRole,
		Roles:           roles,
		CreatedAt:       s.now(),
	}
	id, err := s.institutions.Create(ctx, inst)
	if err != nil {
		return nil, util.MapError(err)
	}

	membership := domain.Membership{InstitutionID: id, Role: managerRole, IsManager: true}
	if err := s.users.AppendMembership(ctx, p.UserID, membership); err != nil {
		s.logger.Error("manager membership write failed after institution creation",
			zap.String("institution_id", id), zap.String("user_id", p.UserID), zap.Error(err))
		s.publishCreated(ctx, p.UserID, inst, false)
		return nil, util.NewPartialSuccess("institution created without manager membership",
			map[string]any{"institution_id": id}, err)
	}

	s.publishCreated(ctx, p.UserID, inst, true)
	return inst, nil
}

// AddRoles unions new labels into the catalog. When every submitted
// label already exists nothing is written and the call fails.
func (s *InstitutionService) AddRoles(ctx context.Context, p *domain.Principal, institutionID, rawRoles string) (*RoleAdditionResult, error) {
	inst, err := s.institutions.GetByID(ctx, institutionID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if !authz.MayManageInstitution(p, inst) {
		return nil, util.NewForbidden("only institution managers may add roles")
	}

	submitted := parseRoleList(rawRoles)
	if len(submitted) == 0 {
		return nil, util.NewValidationError("no roles submitted", map[string]any{"roles": "is required"})
	}

	added, duplicates := partitionRoles(inst.Roles, submitted)
	if len(added) == 0 {
		return nil, util.NewDuplicateRoles(duplicates)
	}

	if err := s.institutions.AddRoles(ctx, institutionID, added); err != nil {
		return nil, util.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRolesAdded,
		ActorID:   p.UserID,
		Timestamp: time.Now(),
		Payload: events.RolesAddedPayload{
			InstitutionID: institutionID,
			Added:         added,
			Duplicates:    duplicates,
		},
	})
	return &RoleAdditionResult{Added: added, Duplicates: duplicates}, nil
}

// Get loads a single institution.
func (s *InstitutionService) Get(ctx context.Context, institutionID string) (*domain.Institution, error) {
	inst, err := s.institutions.GetByID(ctx, institutionID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return inst, nil
}

// List returns every institution.
func (s *InstitutionService) List(ctx context.Context) ([]domain.Institution, error) {
	insts, err := s.institutions.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return insts, nil
}

// FindByName returns the first institution whose name matches,
// compared case-insensitively.
func (s *InstitutionService) FindByName(ctx context.Context, name string) (*domain.Institution, error) {
	target := strings.TrimSpace(name)
	if target == "" {
		return nil, util.NewValidationError("name is required", map[string]any{"name": "is required"})
	}
	insts, err := s.institutions.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	for i := range insts {
		if strings.EqualFold(insts[i].Name, target) {
			return &insts[i], nil
		}
	}
	return nil, util.NewNotFound("institution", map[string]any{"name": target})
}

// ListManagedBy returns the institutions the principal manages.
func (s *InstitutionService) ListManagedBy(ctx context.Context, p *domain.Principal) ([]domain.Institution, error) {
	insts, err := s.institutions.ListManagedBy(ctx, p.UserID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return insts, nil
}

func (s *InstitutionService) publishCreated(ctx context.Context, actorID string, inst *domain.Institution, bound bool) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventInstitutionCreated,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.InstitutionCreatedPayload{
			InstitutionID:   inst.ID,
			Name:            inst.Name,
			ManagerRoleName: inst.ManagerRoleName,
			Roles:           inst.Roles,
			MembershipBound: bound,
		},
	})
}
