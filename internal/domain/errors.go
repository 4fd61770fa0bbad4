package domain

import (
	"errors"
	"fmt"
)

// Domain-specific errors for better error handling and user feedback
var (
	// ErrLinkNotFound is returned when a link is missing, soft-deleted,
	// or owned by someone else
	ErrLinkNotFound = errors.New("link not found")

	// ErrInvalidURL is returned when the provided URL is invalid
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrInvalidAlias is returned when a custom alias has invalid characters or length
	ErrInvalidAlias = errors.New("custom alias contains invalid characters")

	// ErrAliasTaken is returned when a short code or custom alias is already in use
	ErrAliasTaken = errors.New("short code already exists")

	// ErrAllocationExhausted is returned when code generation cannot find a free
	// code after bounded retries. Operational, not a user input error.
	ErrAllocationExhausted = errors.New("short code allocation exhausted")

	// ErrDatabaseConnection is returned for database connectivity issues
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrCacheUnavailable is returned when cache operations fail
	ErrCacheUnavailable = errors.New("cache temporarily unavailable")
)

// AccessDeniedError carries the evaluator's deny reason across the service
// boundary so the HTTP layer can decide between prompting for a password
// and showing a terminal message.
type AccessDeniedError struct {
	Reason DenyReason
}

// Error implements the error interface
func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// AppError wraps errors with additional context for better debugging
type AppError struct {
	Err        error  // Original error
	Message    string // User-friendly message
	StatusCode int    // HTTP status code
	Internal   bool   // Whether to log as internal error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error with context
func NewAppError(err error, message string, statusCode int, internal bool) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// NewValidationError creates a 400 validation error with a field-specific message
func NewValidationError(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidURL,
		Message:    message,
		StatusCode: 400,
		Internal:   false,
	}
}

// NewInternalError creates a 500 internal server error
func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "Internal server error occurred",
		StatusCode: 500,
		Internal:   true, // Log this error
	}
}
