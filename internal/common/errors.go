// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ledger errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrCategoryInUse     = errors.New("category in use")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")

	// Forecast errors.
	ErrInsufficientHistory = errors.New("insufficient history")

	// Import errors.
	ErrMalformedHeader = errors.New("malformed header")

	// Profile errors.
	ErrInvalidProfileName = errors.New("invalid profile name")
	ErrProfileCorrupted   = errors.New("profile file corrupted")

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

// IsRecoverable reports whether an error is a validation-style failure the
// caller can correct and retry, as opposed to an I/O failure.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateCategory) ||
		errors.Is(err, ErrCategoryInUse) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInsufficientHistory)
}
