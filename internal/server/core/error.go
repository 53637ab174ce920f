package core

// Error codes
const (
	ErrRecordNotFound    = "RECORD_NOT_FOUND"
	ErrInvalidAction     = "INVALID_ACTION"
	ErrRecordFinal       = "RECORD_FINAL"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrResourceLimit     = "RESOURCE_LIMIT"
	ErrUnauthorized      = "UNAUTHORIZED"
)
