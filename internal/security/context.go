package security

import (
	"context"
	"errors"

	"project-service/internal/domain/user"
)

var ErrAlreadyBound = errors.New("security context already bound")

type principalContextKey struct{}

// SecurityContext is the request-scoped view of who is calling.
// The zero value is unauthenticated.
type SecurityContext struct {
	principal *Principal
}

func (sc SecurityContext) Authenticated() bool {
	return sc.principal != nil
}

// Principal returns a copy of the bound principal.
func (sc SecurityContext) Principal() (Principal, bool) {
	if sc.principal == nil {
		return Principal{}, false
	}
	return *sc.principal, true
}

func (sc SecurityContext) HasRole(roles ...user.Role) bool {
	return sc.principal != nil && sc.principal.HasRole(roles...)
}

// AuthenticatedAs builds a SecurityContext for p without touching any context.Context.
func AuthenticatedAs(p Principal) SecurityContext {
	return SecurityContext{principal: &p}
}

// Bind attaches p to ctx. A context may be bound once; later calls return
// ErrAlreadyBound and the original ctx.
func Bind(ctx context.Context, p Principal) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if FromContext(ctx).Authenticated() {
		return ctx, ErrAlreadyBound
	}
	return context.WithValue(ctx, principalContextKey{}, p), nil
}

// FromContext returns the SecurityContext carried by ctx.
func FromContext(ctx context.Context) SecurityContext {
	if ctx == nil {
		return SecurityContext{}
	}
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok {
		return SecurityContext{}
	}
	return SecurityContext{principal: &p}
}
