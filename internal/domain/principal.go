package domain

// Principal is the request-scoped view of the authenticated user. It is
// rebuilt from the store on every request and never cached beyond it.
type Principal struct {
	UserID      string
	UserType    UserType
	Memberships []Membership
}

// MembershipFor returns the principal's membership in the institution,
// or nil when none exists.
func (p *Principal) MembershipFor(institutionID string) *Membership {
	for i := range p.Memberships {
		if p.Memberships[i].InstitutionID == institutionID {
			return &p.Memberships[i]
		}
	}
	return nil
}
