// Package policy implements the capability policy model for the easelgate
// access-control layer: roles, capability keys, the role-policy map with its
// default-policy semantics, and a cached store that mirrors the editor's
// server-held policy.
package policy

// Role is a named permission tier. Exactly one role is active per session.
type Role string

// The editor's fixed role enumeration. Admin is an unconditional bypass for
// every capability check.
const (
	RoleAdmin Role = "admin"
	RolePower Role = "power"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// rolePriority orders roles from most to least privileged for ParseRole.
var rolePriority = []Role{RoleAdmin, RolePower, RoleUser, RoleGuest}

// ParseRole resolves the active role from a user's group list, picking the
// highest-priority known role. An empty or unrecognized list yields guest.
func ParseRole(groups []string) Role {
	seen := make(map[Role]bool, len(groups))
	for _, g := range groups {
		seen[Role(g)] = true
	}

	for _, r := range rolePriority {
		if seen[r] {
			return r
		}
	}

	return RoleGuest
}

// IsAdmin reports whether the role bypasses all suppression.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Valid reports whether r is one of the fixed enumeration values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePower, RoleUser, RoleGuest:
		return true
	default:
		return false
	}
}
