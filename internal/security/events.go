package security

// Event type constants for security logging. Using constants keeps event
// names consistent across the codebase and greppable in log output.
const (
	// EventFailedLogin is logged when authentication fails for any reason.
	EventFailedLogin = "failed_login"

	// EventSuccessfulLogin is logged when a user authenticates successfully.
	EventSuccessfulLogin = "successful_login"

	// EventRateLimitExceeded is logged when a client trips a rate limit.
	EventRateLimitExceeded = "rate_limit_exceeded"

	// EventAuthorizationFailure is logged when a valid request is denied access.
	EventAuthorizationFailure = "authorization_failure"

	// EventSuspiciousInput is logged when submitted input matches the
	// SQL-injection heuristic.
	EventSuspiciousInput = "suspicious_input"

	// EventTokenRefresh is logged when a refresh token is exchanged.
	EventTokenRefresh = "token_refresh"

	// EventLogout is logged when a session is ended and its refresh token revoked.
	EventLogout = "logout"
)
