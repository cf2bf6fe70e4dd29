package handler

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20 // Keep parser bound aligned with global body limit.

	paramID       = "id"
	loginKeyScope = "login:"

	headerRetryAfter = "Retry-After"
)

const (
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "Invalid request body"
	msgInvalidUserID           = "Invalid user id"
	msgInvalidRole             = "Role must be USER or ADMIN"
	msgEmailTaken              = "Email is already taken"
	msgTooManyLoginAttempts    = "Too many login attempts, try again later"
	msgNotOwnAccount           = "Access Denied"
	msgIssueTokenFailed        = "failed to issue token"

	msgAPIWorking         = "API is working"
	msgUserRegistered     = "User registered successfully"
	msgPasswordUpdated    = "Password updated successfully."
	msgLimiterUnavailable = "login limiter unavailable, allowing attempt"
	msgLimiterResetFailed = "login limiter reset failed"
)
