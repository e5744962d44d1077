package types

// StandardResponse is the unified response format for all API endpoints
type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains structured error information
type ErrorInfo struct {
	Code    string              `json:"code"`              // Machine-readable error code
	Message string              `json:"message"`           // Human-readable error message
	Fields  map[string][]string `json:"fields,omitempty"`  // Per-field validation messages
	TraceID string              `json:"trace_id,omitempty"`// Request trace ID for debugging
}

// StatusResponse is a minimal acknowledgement payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// TokenResponse carries a freshly issued form timing token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Error codes for standardized error handling
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeDailyLimit       = "DAILY_LIMIT_REACHED"

	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeExternalServiceError = "EXTERNAL_SERVICE_ERROR"
)
