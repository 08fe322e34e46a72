package types

import "github.com/m-mizutani/goerr/v2"

// Role is the authorization role of a user
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleInitiativeLead Role = "Initiative Lead"
	RoleTeamMember     Role = "Team Member"
	RoleViewer         Role = "Viewer"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleInitiativeLead,
		RoleTeamMember,
		RoleViewer,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin,
		RoleInitiativeLead,
		RoleTeamMember,
		RoleViewer:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role bypasses membership scoping
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanLead reports whether the role may create initiatives
func (r Role) CanLead() bool {
	return r == RoleAdmin || r == RoleInitiativeLead
}

func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", goerr.New("invalid role", goerr.V("role", s))
	}
	return role, nil
}
