package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes of the public API.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate limited")
	ErrNotFound          = errors.New("not found or unauthorized")
	ErrValidation        = errors.New("validation failed")
	ErrUpstream          = errors.New("upstream failure")
)

// AppError is a structured application error with an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`

	// Rate-limit detail, set only for RATE_LIMITED so clients can back off.
	Usage int64 `json:"usage,omitempty"`
	Limit int64 `json:"limit,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthenticated creates a 401 error for a missing credential.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHENTICATED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthenticated,
	}
}

// InvalidCredential creates a 403 error. The external message matches the
// revoked-key message so callers cannot enumerate which case applies.
func InvalidCredential() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIAL",
		Message: "invalid or revoked API key",
		Status:  http.StatusForbidden,
		Err:     ErrInvalidCredential,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// RateLimited creates a 429 error carrying the current usage and limit.
func RateLimited(usage, limit int64) *AppError {
	return &AppError{
		Code:    "RATE_LIMITED",
		Message: "rate limit exceeded",
		Status:  http.StatusTooManyRequests,
		Err:     ErrRateLimited,
		Usage:   usage,
		Limit:   limit,
	}
}

// NotFoundOrUnauthorized creates a 404 error. Existence and ownership are
// deliberately conflated.
func NotFoundOrUnauthorized(resource string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found or unauthorized", resource),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Validation creates a 400 error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Upstream creates a 503 error wrapping a storage or collaborator failure.
func Upstream(err error) *AppError {
	return &AppError{
		Code:    "UPSTREAM_FAILURE",
		Message: "service temporarily unavailable",
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%w: %w", ErrUpstream, err),
	}
}

// HTTPStatus returns the mapped status for err, defaulting to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// AsAppError extracts an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
