package ledger

import (
	"errors"
	"fmt"
)

// ValidationError represents invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var validationErr ValidationError
	return errors.As(err, &validationErr)
}

// ForbiddenError represents a caller lacking the required role.
type ForbiddenError struct {
	ActorID string
	Message string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden for %s: %s", e.ActorID, e.Message)
}

// NewForbiddenError constructs ForbiddenError
func NewForbiddenError(actorID, message string) ForbiddenError {
	return ForbiddenError{ActorID: actorID, Message: message}
}

// IsForbiddenError checks if error is ForbiddenError
func IsForbiddenError(err error) bool {
	var fe ForbiddenError
	return errors.As(err, &fe)
}
