package session

import "strings"

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleHost, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleHost,
		RoleAdmin,
	}
}

// IsAuthenticated reports whether an identity is present. Derived queries are
// pure functions over the current identity, recomputed on every read.
func IsAuthenticated(u *User) bool {
	return u != nil
}

// IsHost reports whether the identity is a host. The check is strict boolean
// equality on the IsHost flag; a nil user is never a host.
func IsHost(u *User) bool {
	if u == nil {
		return false
	}
	return u.IsHost
}

// IsAdmin reports whether the identity looks like an administrator.
//
// This is a placeholder heuristic carried over from the original product: it
// matches on an email substring and MUST NOT be used as a security boundary.
// A real authorization decision belongs to the Role field or an external
// policy check.
func IsAdmin(u *User) bool {
	if u == nil {
		return false
	}
	return strings.Contains(u.Email, "admin")
}
