// Package authz is the stateless predicate kernel every mutation passes
// through. Predicates evaluate a Principal against a freshly read store
// snapshot of the target entity; they never cache and never write.
package authz

import (
	"github.com/spec-kit/cms-service/internal/domain"
)

// MayCreateInstitution permits only manager-classified accounts.
func MayCreateInstitution(p *domain.Principal) bool {
	return p != nil && p.UserType == domain.UserTypeManager
}

// MayManageInstitution requires the principal among the institution's managers.
func MayManageInstitution(p *domain.Principal, inst *domain.Institution) bool {
	return p != nil && inst != nil && inst.ManagedBy(p.UserID)
}

// MayJoinInstitution requires a joinable role to exist and no current
// membership of the principal in the institution.
func MayJoinInstitution(p *domain.Principal, inst *domain.Institution) bool {
	if p == nil || inst == nil {
		return false
	}
	if len(inst.JoinableRoles()) == 0 {
		return false
	}
	return p.MembershipFor(inst.ID) == nil
}

// MaySubmitReport requires a non-manager membership in the institution.
func MaySubmitReport(p *domain.Principal, institutionID string) bool {
	if p == nil {
		return false
	}
	m := p.MembershipFor(institutionID)
	return m != nil && !m.IsManager
}

// MayReadReport permits the author or any manager of the report's institution.
func MayReadReport(p *domain.Principal, r *domain.Report, inst *domain.Institution) bool {
	if p == nil || r == nil {
		return false
	}
	if r.UserID == p.UserID {
		return true
	}
	return MayManageInstitution(p, inst)
}

// MayUpdateReport permits only managers of the report's institution.
func MayUpdateReport(p *domain.Principal, inst *domain.Institution) bool {
	return MayManageInstitution(p, inst)
}
