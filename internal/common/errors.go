package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Precondition errors.
	ErrImageNotFound = errors.New("image not found")

	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// OCR errors.
	ErrBackendUnavailable = errors.New("ocr backend unavailable")
	ErrBackendTimeout     = errors.New("ocr backend timeout")

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

// IsRetryable determines if an error should trigger a retry. Precondition
// failures (missing images, bad config) are never retried.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrImageNotFound) ||
		errors.Is(err, ErrMissingConfig) ||
		errors.Is(err, ErrInvalidConfig) {
		return false
	}

	if errors.Is(err, ErrBackendTimeout) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
