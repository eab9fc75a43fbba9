package errors

import (
	"fmt"
)

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrNotAuthorized = fmt.Errorf("not authorized")
	ErrInvalidInput  = fmt.Errorf("invalid input")
)

// ValidationError reports a missing or empty required field by name so the
// caller can correct it.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s field is missing or empty", e.Field)
}

// Unwrap lets errors.Is treat a ValidationError as ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
