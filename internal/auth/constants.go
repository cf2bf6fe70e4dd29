package auth

import "time"

// TokenTTL is the fixed lifetime of issued tokens.
const TokenTTL = 10 * time.Hour

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
	codeUnauthorized    = "UNAUTHORIZED"
)

const (
	msgInvalidOrExpiredToken   = "Invalid or expired token"
	msgAuthenticationRequired  = "Full authentication is required to access this resource"
	msgAccessDenied            = "Access Denied"
	msgUserNotAuthenticated    = "user not authenticated"
	msgSecretRequired          = "signing secret must not be empty"
	msgIdentifierRequired      = "principal identifier must not be empty"
	msgInvalidPrincipalRoleFmt = "principal role %s is not issuable"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgSubjectMissing          = "subject claim missing"
	msgExpiryMissing           = "expiry claim missing"
	msgInvalidTokenClaims      = "invalid token claims"
	msgMissingAuthHeader       = "no authorization header"
	msgMalformedAuthHeader     = "authorization header is not a bearer token"
	msgTokenRejected           = "bearer token rejected"
	msgPrincipalLoadFailed     = "principal lookup failed"
	msgAlreadyAuthenticated    = "security context already bound"
	msgAccessDeniedLog         = "route policy denied request"
)
