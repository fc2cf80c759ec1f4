package errors

import (
	"fmt"
)

// ExtError is the structured error type for extcheck.
// It carries the code that check results and JSON reports expose.
type ExtError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Tool, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ExtError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ExtError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with ExtError.
func (e *ExtError) Is(target error) bool {
	if t, ok := target.(*ExtError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *ExtError) WithDetail(key, value string) *ExtError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *ExtError) WithSuggestion(suggestion string) *ExtError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ExtError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *ExtError {
	return &ExtError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an ExtError from an existing error.
// The error's message becomes the ExtError message.
func Wrap(code string, err error) *ExtError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ExtError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *ExtError {
	return New(ErrCodeInvalidInput, message, cause)
}

// GetCode extracts the error code from an ExtError.
// Returns empty string if not an ExtError.
func GetCode(err error) string {
	if ae, ok := err.(*ExtError); ok {
		return ae.Code
	}
	return ""
}
