// File: hotelier/utils/error.go
package utils

import (
	"errors"
	"fmt"
)

// ValidationError signals bad user input to a synchronous operation. It is
// reported inline to the caller and never logged as a system fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthError signals a 401 from any endpoint. The API client reacts with the
// one-shot refresh path; if that fails the session is demoted to anonymous
// and this error is surfaced.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return e.Message
}

// NetworkError wraps a transport failure (no response). It is surfaced to the
// caller as a retryable, user-visible failure; nothing auto-retries it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: server unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConflictError carries a 409 (e.g. duplicate registration email) verbatim.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// APIError is any other non-2xx response with a decoded {error, code} body.
type APIError struct {
	StatusCode int
	Message    string
	Code       int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
