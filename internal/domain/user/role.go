package user

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. The zero value is not a valid role.
type Role int

const (
	RoleUser Role = iota + 1
	RoleAdmin
)

const (
	roleNameUser      = "USER"
	roleNameAdmin     = "ADMIN"
	authorityPrefix   = "ROLE_"
	errInvalidRoleFmt = "invalid role: %q"
)

// ParseRole accepts "USER"/"ADMIN" and the authority forms "ROLE_USER"/"ROLE_ADMIN",
// case-insensitively.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, authorityPrefix)

	switch name {
	case roleNameUser:
		return RoleUser, nil
	case roleNameAdmin:
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf(errInvalidRoleFmt, s)
	}
}

// String returns the stored form ("USER", "ADMIN").
func (r Role) String() string {
	switch r {
	case RoleUser:
		return roleNameUser
	case RoleAdmin:
		return roleNameAdmin
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Authority returns the token claim form ("ROLE_USER", "ROLE_ADMIN").
func (r Role) Authority() string {
	return authorityPrefix + r.String()
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf(errInvalidRoleFmt, r.String())
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
