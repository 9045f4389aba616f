package complaint

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed input: an identifier that does not
// fit the store's scheme or an unknown status label.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NotFoundError indicates that the referenced user or complaint does not exist.
type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("not found: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("not found: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *NotFoundError {
	return &NotFoundError{Message: msg, Err: err}
}

// ForbiddenError indicates that the actor lacks the role the operation needs.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Message)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(msg string) *ForbiddenError {
	return &ForbiddenError{Message: msg}
}

// IsValidation checks if the error chain holds a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound checks if the error chain holds a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsForbidden checks if the error chain holds a ForbiddenError
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}
