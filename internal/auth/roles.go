package auth

// UserRole is the coarse permission tier attached to an account
type UserRole = string

const (
	// RoleUser is a regular alumni account
	RoleUser UserRole = "user"
	// RoleAdmin can moderate content and act on the approval queue
	RoleAdmin UserRole = "admin"
	// RoleSuperuser can additionally create admin accounts
	RoleSuperuser UserRole = "superuser"
)

// AdminRoles is the admin-or-above policy used by the admin routes.
var AdminRoles = []UserRole{RoleAdmin, RoleSuperuser}

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperuser:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if the role meets the minimum required level
func IsAtLeast(r, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleUser:      0,
		RoleAdmin:     1,
		RoleSuperuser: 2,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}
