package rbac

import (
	"fmt"
	"strings"

	"project-service/internal/domain/user"
	"project-service/internal/security"
)

type compiledRule struct {
	rule          RouteRule
	method        string
	segments      []string
	tail          bool
	literalPrefix int
}

// Policy resolves requests against a validated route table.
// It is immutable after construction and safe for concurrent use.
type Policy struct {
	rules []compiledRule
}

// New creates a Policy from a validated Config
func New(cfg Config) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Policy{rules: make([]compiledRule, 0, len(cfg.Rules))}
	for _, r := range cfg.Rules {
		p.rules = append(p.rules, compile(r))
	}
	return p, nil
}

// MustNew creates a Policy and panics on invalid config
func MustNew(cfg Config) *Policy {
	p, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return p
}

func compile(r RouteRule) compiledRule {
	cr := compiledRule{
		rule:   RouteRule{Method: strings.ToUpper(r.Method), Pattern: r.Pattern, Access: r.Access},
		method: strings.ToUpper(r.Method),
	}

	segs := splitPath(r.Pattern)
	if n := len(segs); n > 0 && segs[n-1] == tailWildcard {
		cr.tail = true
		segs = segs[:n-1]
	}
	cr.segments = segs

	for _, s := range segs {
		if isWildcard(s) {
			break
		}
		cr.literalPrefix++
	}

	return cr
}

// Resolve returns the single rule governing method and path.
// The longest literal prefix wins, then a method-specific rule over "*",
// then table order.
func (p *Policy) Resolve(method, path string) RouteRule {
	method = strings.ToUpper(method)
	segs := splitPath(path)

	var best *compiledRule
	for i := range p.rules {
		cr := &p.rules[i]
		if !cr.matches(method, segs) {
			continue
		}
		if best == nil || cr.beats(best) {
			best = cr
		}
	}

	// Validate guarantees a catch-all, so best is never nil here.
	return best.rule
}

func (p *Policy) IsPublic(method, path string) bool {
	return p.Resolve(method, path).Access.IsPublic()
}

// CheckAccess decides whether sc may call method on path. It does no I/O.
func (p *Policy) CheckAccess(method, path string, sc security.SecurityContext) Decision {
	rule := p.Resolve(method, path)

	if rule.Access.IsPublic() {
		return Decision{Allowed: true, Rule: rule}
	}

	principal, ok := sc.Principal()
	if !ok {
		return Decision{Reason: DenyUnauthenticated, Rule: rule}
	}

	for _, required := range rule.Access.roles {
		if grants(required, principal.Role) {
			return Decision{Allowed: true, Rule: rule}
		}
	}

	return Decision{Reason: DenyForbidden, Rule: rule}
}

func grants(required, held user.Role) bool {
	switch required {
	case user.RoleUser:
		return held == user.RoleUser
	case user.RoleAdmin:
		return held == user.RoleAdmin
	default:
		return false
	}
}

func (cr *compiledRule) matches(method string, segs []string) bool {
	if cr.method != MethodAny && cr.method != method {
		return false
	}

	if cr.tail {
		if len(segs) < len(cr.segments) {
			return false
		}
	} else if len(segs) != len(cr.segments) {
		return false
	}

	for i, want := range cr.segments {
		if isWildcard(want) {
			continue
		}
		if segs[i] != want {
			return false
		}
	}

	return true
}

// beats reports whether cr outranks other; earlier rules win remaining ties.
func (cr *compiledRule) beats(other *compiledRule) bool {
	if cr.literalPrefix != other.literalPrefix {
		return cr.literalPrefix > other.literalPrefix
	}
	return cr.method != MethodAny && other.method == MethodAny
}

func isWildcard(seg string) bool {
	return seg == segWildcard || seg == tailWildcard || strings.HasPrefix(seg, paramPrefix)
}

func splitPath(path string) []string {
	parts := strings.Split(path, pathSeparator)
	segs := parts[:0]
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
