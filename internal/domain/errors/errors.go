// Package errors defines the service error taxonomy. Sentinel error texts
// are the exact client-facing messages; the HTTP boundary maps them to
// status codes and everything else collapses to a generic 500.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Generic errors
	ErrInternal       = errors.New("Internal server error")
	ErrInvalidRequest = errors.New("Validation error")
	ErrNotFound       = errors.New("Resource not found")
	ErrForbidden      = errors.New("You do not have permission to access this resource")
	ErrUnauthorized   = errors.New("Unauthorized access")

	// Authentication errors. Invalid credentials deliberately carries a
	// single message for both unknown-email and wrong-password so the
	// signin path leaks nothing about which one failed.
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrAccountDeactivated   = errors.New("Account is deactivated")
	ErrInvalidToken         = errors.New("Invalid token")
	ErrExpiredToken         = errors.New("Token has expired")
	ErrMalformedToken       = errors.New("Invalid token")
	ErrTokenSignatureInvalid = errors.New("Invalid token")
	ErrInvalidRefreshToken  = errors.New("Invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("Refresh token has expired")
	ErrMissingRefreshToken  = errors.New("Refresh token is required")

	// User errors
	ErrUserNotFound = errors.New("User not found")
	ErrEmailExists  = errors.New("Email already registered")
)

// AppError carries an error with the message and status code the API
// boundary should expose for it.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError wrapping err.
func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{Err: err, Message: message, StatusCode: statusCode, Code: code}
}

// IsNotFound reports whether err is a "not found" failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailExists)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountDeactivated) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrTokenSignatureInvalid) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrRefreshTokenExpired) ||
		errors.Is(err, ErrMissingRefreshToken)
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// HTTPStatus maps err to the status code the boundary should return.
// Unrecognized errors are internal failures.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case IsUnauthorized(err):
		return http.StatusUnauthorized
	case IsForbidden(err):
		return http.StatusForbidden
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
