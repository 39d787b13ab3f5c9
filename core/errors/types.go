// ABOUTME: Custom error types for the report pipeline
// ABOUTME: Separates recoverable upstream failures from fatal synthesis and fragment errors

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration or input validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents a non-success response from an upstream service
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// SynthesisError is returned once every synthesis attempt has failed.
// It always aborts the run.
type SynthesisError struct {
	Provider string
	Attempts int
	Err      error
}

// Error implements the error interface
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis via %s failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

// Unwrap exposes the last attempt's error
func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// FragmentError lists the structural problems found in a synthesized fragment
type FragmentError struct {
	Issues []string
}

// Error implements the error interface
func (e *FragmentError) Error() string {
	return fmt.Sprintf("fragment failed validation: %s", strings.Join(e.Issues, "; "))
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsSynthesis checks if an error is a SynthesisError
func IsSynthesis(err error) bool {
	var synthErr *SynthesisError
	return errors.As(err, &synthErr)
}

// IsFragment checks if an error is a FragmentError
func IsFragment(err error) bool {
	var fragErr *FragmentError
	return errors.As(err, &fragErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
