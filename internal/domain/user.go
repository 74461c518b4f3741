package domain

// UserType classifies an account at registration; it never changes.
type UserType string

const (
	UserTypeManager UserType = "manager"
	UserTypeRegular UserType = "regular"
)

// Valid reports whether the value is one of the known classifications.
func (t UserType) Valid() bool {
	return t == UserTypeManager || t == UserTypeRegular
}

// Membership records a user's attachment to a single institution.
// A user holds at most one membership per institution.
type Membership struct {
	InstitutionID string
	Role          string
	IsManager     bool
}

// User is the domain model for registered principals. Memberships is the
// authoritative record of institution attachments; the legacy scalar
// mirrors on the stored document are write-only.
type User struct {
	ID          string
	Email       string
	FullName    string
	UserType    UserType
	Memberships []Membership
}

// MembershipFor returns the user's membership in the given institution,
// or nil when none exists.
func (u *User) MembershipFor(institutionID string) *Membership {
	for i := range u.Memberships {
		if u.Memberships[i].InstitutionID == institutionID {
			return &u.Memberships[i]
		}
	}
	return nil
}
