package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrStore wraps failures reading or writing the underlying store
	ErrStore = errors.New("store unavailable")
	// ErrMetricsUnavailable wraps failures of the external metrics service
	ErrMetricsUnavailable = errors.New("metrics service unavailable")
)

// ValidationError reports an invalid or missing input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
