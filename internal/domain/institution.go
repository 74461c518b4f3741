package domain

import "strings"

// Institution is a tenant boundary owning a role catalog and reports.
// ManagerIDs is never empty; ManagerRoleName always appears in Roles.
type Institution struct {
	ID              string
	Name            string
	ManagerIDs      []string
	ManagerRoleName string
	Roles           []string
	CreatedAt       int64
}

// ManagedBy reports whether the user has manager authority here.
func (i *Institution) ManagedBy(userID string) bool {
	for _, id := range i.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasRole reports whether the label exists in the catalog, compared
// case-insensitively. Stored casing is never touched.
func (i *Institution) HasRole(role string) bool {
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// JoinableRoles returns the catalog minus the manager role, in order.
func (i *Institution) JoinableRoles() []string {
	joinable := make([]string, 0, len(i.Roles))
	for _, r := range i.Roles {
		if strings.EqualFold(r, i.ManagerRoleName) {
			continue
		}
		joinable = append(joinable, r)
	}
	return joinable
}
