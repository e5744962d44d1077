package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	RateLimitError  ErrorType = "RATE_LIMIT_EXCEEDED"
	QuotaError      ErrorType = "DAILY_LIMIT_REACHED"
	EmailError      ErrorType = "EMAIL_DELIVERY_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType           `json:"type"`
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Detail     string              `json:"detail,omitempty"`
	Fields     map[string][]string `json:"fields,omitempty"`
	HTTPStatus int                 `json:"-"`
	Raw        error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status code for the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// ValidationFailed builds a field-level validation error. The field map is
// returned to the client unchanged so the form can re-render with messages.
func ValidationFailed(message string, fields map[string][]string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       "validation_failed",
		Message:    message,
		Fields:     fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

// RateLimitExceeded signals the per-client limiter rejected the request.
func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Code:       "rate_limited",
		Message:    message,
		Detail:     fmt.Sprintf("Retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// DailyLimitReached signals the global submission quota is exhausted.
func DailyLimitReached() *AppError {
	return &AppError{
		Type:       QuotaError,
		Code:       "daily_limit_reached",
		Message:    "We have reached our daily submission limit. Please try again tomorrow.",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// EmailDeliveryFailed converts a transport failure into the generic
// retry-later error shown to the visitor. The cause travels in Raw for the
// logs and never reaches the response body.
func EmailDeliveryFailed(cause error) *AppError {
	return &AppError{
		Type:       EmailError,
		Code:       "email_delivery_failed",
		Message:    "We could not send your message right now. Please try again later.",
		HTTPStatus: http.StatusBadGateway,
		Raw:        cause,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case RateLimitError, QuotaError:
		return http.StatusTooManyRequests
	case EmailError:
		return http.StatusBadGateway
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
