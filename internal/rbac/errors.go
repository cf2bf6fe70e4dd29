package rbac

import "errors"

var ErrInvalidConfig = errors.New("invalid route policy")

const (
	errConfigRulesEmpty              = "rules must not be empty"
	errConfigMethodInvalidFmt        = "rule %d: unsupported method %q"
	errConfigPatternInvalidFmt       = "rule %d: pattern %q must start with /"
	errConfigPatternEmptySegmentFmt  = "rule %d: pattern %q has an empty segment"
	errConfigPatternMisplacedTailFmt = "rule %d: pattern %q may only use ** as the last segment"
	errConfigPatternEmptyParamFmt    = "rule %d: pattern %q has an unnamed parameter"
	errConfigRolesEmptyFmt           = "rule %d (%s %s): role requirement lists no roles"
	errConfigRoleInvalidFmt          = "rule %d (%s %s): invalid role %s"
	errConfigDuplicateRuleFmt        = "rule %d duplicates %s %s"
	errConfigCatchAllMissing         = "a catch-all rule (* /**) is required"
	errMustNewPanicFmt               = "rbac.MustNew: %v"
)
