package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that reaches a handler wraps exactly one of these.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrDuplicate  = errors.New("already exists")
	ErrNotFound   = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrAuth)
	ErrInvalidToken       = fmt.Errorf("invalid or expired token: %w", ErrAuth)
)

// Store errors
var (
	ErrDuplicateEmail  = fmt.Errorf("email already registered: %w", ErrDuplicate)
	ErrProfileExists   = fmt.Errorf("profile already exists: %w", ErrDuplicate)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
)

// ValidationError carries a client-facing message and unwraps to ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
