package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a stable machine-readable error identifier
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

var (
	// ErrEstimatorUnavailable is returned when no rent estimate can be produced
	ErrEstimatorUnavailable = errors.New("rent estimator unavailable")
	// ErrNoDataset is returned when no comparables dataset has been loaded
	ErrNoDataset = errors.New("comparables dataset not loaded")
)

// FieldError describes a problem with a single input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for input that cannot be analyzed.
// Callers surface it unchanged; no partial results accompany it.
type ValidationError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// NewValidationError creates an empty validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Code: ErrCodeInvalidInput, Message: message}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

// Add records a field problem
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Merge appends the field errors of another validation error
func (e *ValidationError) Merge(err error) {
	var other *ValidationError
	if errors.As(err, &other) {
		e.Fields = append(e.Fields, other.Fields...)
	}
}

// OrNil returns nil when no field errors were recorded
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidationError unwraps a validation error from err
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
