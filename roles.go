package auth

// Role is the closed set of account roles. Dynamic role lists are deliberately
// not supported; authorization decisions go through explicit predicates below.
type Role string

const (
	// RoleUser is a regular customer account.
	RoleUser Role = "user"
	// RoleAdmin can manage any resource.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role carries administrative privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole safely parses a string into a Role.
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// GetAllRoles returns all predefined roles.
func GetAllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// CanManageResource is the authorization predicate: admins may act on any
// resource, everyone else only on resources they own.
func CanManageResource(subject Role, subjectID, ownerID string) bool {
	if subject.IsAdmin() {
		return true
	}
	return subjectID != "" && subjectID == ownerID
}
