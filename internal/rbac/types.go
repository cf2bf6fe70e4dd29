package rbac

import (
	"project-service/internal/domain/user"
)

// MethodAny matches every HTTP method.
const MethodAny = "*"

type accessKind int

const (
	accessRoles accessKind = iota
	accessPublic
)

// Access is what a route demands of the caller.
type Access struct {
	kind  accessKind
	roles []user.Role
}

// Public lets anyone through, authenticated or not.
func Public() Access {
	return Access{kind: accessPublic}
}

// RequireRoles admits an authenticated principal holding any of roles.
func RequireRoles(roles ...user.Role) Access {
	return Access{kind: accessRoles, roles: append([]user.Role(nil), roles...)}
}

func (a Access) IsPublic() bool {
	return a.kind == accessPublic
}

func (a Access) Roles() []user.Role {
	return append([]user.Role(nil), a.roles...)
}

// RouteRule binds a method and path pattern to an Access requirement.
//
// Pattern segments are literals, ":name" or "*" for exactly one segment,
// or a trailing "**" for any remainder (including none).
type RouteRule struct {
	Method  string
	Pattern string
	Access  Access
}

type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyUnauthenticated
	DenyForbidden
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "none"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the outcome of CheckAccess.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Rule    RouteRule
}
