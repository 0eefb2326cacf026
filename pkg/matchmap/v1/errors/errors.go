package errors

import (
	"errors"
	"fmt"
)

// --- matchmap Error Types ---

// ConfigError represents an invalid configuration of a map: an unknown echo
// mode, a failing option, or a map file that cannot be read.
type ConfigError struct {
	Message string
	Cause   error
}

func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{Message: message, Cause: cause}
}
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}
func (e *ConfigError) Unwrap() error { return e.Cause }

// ValidationError indicates that a map definition (schema, entry shape,
// pattern syntax, template syntax) failed validation.
type ValidationError struct {
	// Field locates the offending element, e.g. "entries[3].pattern". Optional.
	Field   string
	Message string
	Cause   error
}

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}

// NewFieldValidationError builds a ValidationError attached to a specific field.
func NewFieldValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Cause: cause}
}
func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", msg)
}
func (e *ValidationError) Unwrap() error { return e.Cause }

// TransformerNotFoundError indicates that a map definition referenced a
// named transformer that is not present in the transformer registry.
type TransformerNotFoundError struct {
	Name string
}

func NewTransformerNotFoundError(name string) *TransformerNotFoundError {
	return &TransformerNotFoundError{Name: name}
}
func (e *TransformerNotFoundError) Error() string {
	return fmt.Sprintf("transformer not found: %s", e.Name)
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
