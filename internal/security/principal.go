package security

import (
	"project-service/internal/domain/user"
)

// Principal is the authenticated identity bound to a request.
type Principal struct {
	ID          int64
	Identifier  string
	DisplayName string
	Role        user.Role
}

// HasRole reports whether the principal holds any of the given roles.
func (p Principal) HasRole(roles ...user.Role) bool {
	for _, r := range roles {
		if p.Role == r && r.Valid() {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(user.RoleAdmin)
}

// PrincipalFromUser projects a stored user onto a Principal.
func PrincipalFromUser(u *user.User) Principal {
	return Principal{
		ID:          u.ID,
		Identifier:  u.Email,
		DisplayName: u.Name,
		Role:        u.Role,
	}
}
