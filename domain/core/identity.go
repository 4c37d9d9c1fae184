package core

import "strings"

// Role is the caller's authorization level as asserted by the upstream authenticator.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps an arbitrary header value onto a known role. Unknown values
// fall back to RoleUser.
func ParseRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is an already-authenticated caller.
type Identity struct {
	UserID ID   `json:"user_id"`
	Role   Role `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAccess reports whether the caller owns the record or holds the admin role.
func (i Identity) CanAccess(owner ID) bool {
	if i.UserID.IsEmpty() {
		return false
	}
	return i.IsAdmin() || i.UserID == owner
}
