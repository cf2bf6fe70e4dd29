package rbac

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	pathSeparator = "/"
	tailWildcard  = "**"
	segWildcard   = "*"
	paramPrefix   = ":"
	catchAll      = "/**"
)

var allowedMethods = map[string]bool{
	MethodAny:          true,
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// Config is an ordered route policy table.
type Config struct {
	Rules []RouteRule
}

// Validate checks that every rule is well formed and that a catch-all exists.
func (c *Config) Validate() error {
	if len(c.Rules) == 0 {
		return configError(errConfigRulesEmpty)
	}

	seen := make(map[string]int, len(c.Rules))
	hasCatchAll := false

	for i, rule := range c.Rules {
		method := strings.ToUpper(rule.Method)
		if !allowedMethods[method] {
			return configError(errConfigMethodInvalidFmt, i, rule.Method)
		}

		if err := validatePattern(i, rule.Pattern); err != nil {
			return err
		}

		if !rule.Access.IsPublic() {
			if len(rule.Access.roles) == 0 {
				return configError(errConfigRolesEmptyFmt, i, method, rule.Pattern)
			}
			for _, r := range rule.Access.roles {
				if !r.Valid() {
					return configError(errConfigRoleInvalidFmt, i, method, rule.Pattern, r)
				}
			}
		}

		key := method + " " + rule.Pattern
		if _, dup := seen[key]; dup {
			return configError(errConfigDuplicateRuleFmt, i, method, rule.Pattern)
		}
		seen[key] = i

		if method == MethodAny && rule.Pattern == catchAll {
			hasCatchAll = true
		}
	}

	if !hasCatchAll {
		return configError(errConfigCatchAllMissing)
	}

	return nil
}

func validatePattern(i int, pattern string) error {
	if !strings.HasPrefix(pattern, pathSeparator) {
		return configError(errConfigPatternInvalidFmt, i, pattern)
	}
	if pattern == pathSeparator {
		return nil
	}

	segments := strings.Split(strings.TrimPrefix(pattern, pathSeparator), pathSeparator)
	for j, seg := range segments {
		switch {
		case seg == "":
			return configError(errConfigPatternEmptySegmentFmt, i, pattern)
		case seg == tailWildcard && j != len(segments)-1:
			return configError(errConfigPatternMisplacedTailFmt, i, pattern)
		case seg == paramPrefix:
			return configError(errConfigPatternEmptyParamFmt, i, pattern)
		}
	}

	return nil
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
