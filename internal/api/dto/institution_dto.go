package dto

// CreateInstitutionRequest payload. Roles carries the comma-separated
// role catalog; its first entry is the manager role unless
// manager_role_name overrides it.
type CreateInstitutionRequest struct {
	Name            string `json:"name"`
	ManagerRoleName string `json:"manager_role_name"`
	Roles           string `json:"roles"`
}

// AddRolesRequest payload for catalog additions.
type AddRolesRequest struct {
	Roles string `json:"roles"`
}

// JoinInstitutionRequest payload for membership creation.
type JoinInstitutionRequest struct {
	Role string `json:"role"`
}

// InstitutionSummary is the public view of an institution.
type InstitutionSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ManagerIDs      []string `json:"manager_ids"`
	ManagerRoleName string   `json:"manager_role_name"`
	Roles           []string `json:"roles"`
	JoinableRoles   []string `json:"joinable_roles"`
	CreatedAt       int64    `json:"created_at"`
}

// RoleAdditionResponse reports the outcome of an AddRoles call.
type RoleAdditionResponse struct {
	Added      []string `json:"added"`
	Duplicates []string `json:"duplicates"`
}
