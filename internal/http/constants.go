package httpx

const (
	maxBodyBytes = 1 << 20

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	headerRequestID = "X-Request-ID"

	errCodeAuthRequired     = "authentication_required"
	errCodeInsufficientPerm = "insufficient_permissions"
	errCodeLoginFailed      = "login_failed"
	errCodeUnknownRole      = "unknown_role"
	errCodeLoginInProgress  = "login_in_progress"
	errCodeStaleSession     = "stale_session"
	errCodeUpstream         = "upstream_error"
)
