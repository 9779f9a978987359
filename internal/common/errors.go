// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound means the requested list, log or record is absent.
	// Read paths treat it as "nothing to do".
	ErrNotFound       = errors.New("not found")
	// ErrDuplicateEntry means a record with the same key already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrSourceUnavailable means a backing data source could not be reached.
	// It is transient; whether to retry is the caller's decision.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrInvalidState means an operation was attempted from a state that forbids it,
	// such as editing a completed shopping list. It is never retried.
	ErrInvalidState = errors.New("invalid state")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// SourceUnavailable wraps err so that it matches ErrSourceUnavailable.
func SourceUnavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
}

// InvalidState returns an ErrInvalidState describing the rejected operation.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrInvalidState) ||
		errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, ErrSourceUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
