package account

const (
	errInvalidRole = "role must be USER or ADMIN"
	errHashFailed  = "failed to hash password"
)
