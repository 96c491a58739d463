package validation

import (
	"fmt"
	"strings"
)

// ErrorCode constants for machine-readable error identification
const (
	ErrCodeRequired     = "required"
	ErrCodeType         = "type"
	ErrCodeMinLength    = "min_length"
	ErrCodeMaxLength    = "max_length"
	ErrCodePattern      = "pattern"
	ErrCodeFormat       = "format"
	ErrCodeMin          = "min"
	ErrCodeMax          = "max"
	ErrCodeExclusiveMin = "exclusive_min"
	ErrCodeExclusiveMax = "exclusive_max"
	ErrCodeMultipleOf   = "multiple_of"
	ErrCodeMinItems     = "min_items"
	ErrCodeMaxItems     = "max_items"
	ErrCodeUniqueItems  = "unique_items"
	ErrCodeEnum         = "enum"
	ErrCodeAnyOf        = "any_of"
	ErrCodeSchema       = "schema"
)

// RootPath is the path reported for the document root.
const RootPath = "$"

// FieldError represents a detailed validation error for a single value.
type FieldError struct {
	// Path locates the value inside the document, e.g. $.users[2].email
	Path string `json:"path"`

	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Received is the actual value that was received
	Received interface{} `json:"received,omitempty"`

	// Expected describes what was expected
	Expected string `json:"expected,omitempty"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Result contains the outcome of validation.
type Result struct {
	// Valid is true if validation passed
	Valid bool `json:"valid"`

	// Errors contains validation errors (when Valid is false)
	Errors []*FieldError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (r *Result) AddError(err *FieldError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// HasErrors returns true if there are any validation errors
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Merge combines another result into this one
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
}

// Err returns nil for a valid result, otherwise an error listing every failure.
func (r *Result) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// Helper functions for creating common errors

// NewRequiredError creates an error for a missing required property
func NewRequiredError(path string) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeRequired,
		Message:  "property is required",
		Expected: "present",
	}
}

// NewTypeError creates an error for a type mismatch
func NewTypeError(path, expected string, received interface{}) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeType,
		Message:  fmt.Sprintf("expected type '%s'", expected),
		Received: received,
		Expected: expected,
	}
}

// NewMinLengthError creates an error for string too short
func NewMinLengthError(path string, minLength int, actual int) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeMinLength,
		Message:  fmt.Sprintf("must be at least %d characters", minLength),
		Received: actual,
		Expected: fmt.Sprintf(">= %d characters", minLength),
	}
}

// NewMaxLengthError creates an error for string too long
func NewMaxLengthError(path string, maxLength int, actual int) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeMaxLength,
		Message:  fmt.Sprintf("must be at most %d characters", maxLength),
		Received: actual,
		Expected: fmt.Sprintf("<= %d characters", maxLength),
	}
}

// NewPatternError creates an error for regex pattern mismatch
func NewPatternError(path, pattern string, received interface{}) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodePattern,
		Message:  fmt.Sprintf("must match pattern '%s'", pattern),
		Received: received,
		Expected: fmt.Sprintf("pattern: %s", pattern),
	}
}

// NewFormatError creates an error for format validation failure
func NewFormatError(path, format string, received interface{}) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeFormat,
		Message:  fmt.Sprintf("must be a valid %s", format),
		Received: received,
		Expected: fmt.Sprintf("format: %s", format),
	}
}

// NewMinError creates an error for number below minimum
func NewMinError(path string, min float64, received interface{}) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeMin,
		Message:  fmt.Sprintf("must be >= %v", min),
		Received: received,
		Expected: fmt.Sprintf(">= %v", min),
	}
}

// NewMaxError creates an error for number above maximum
func NewMaxError(path string, max float64, received interface{}) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeMax,
		Message:  fmt.Sprintf("must be <= %v", max),
		Received: received,
		Expected: fmt.Sprintf("<= %v", max),
	}
}

// NewMinItemsError creates an error for array with too few items
func NewMinItemsError(path string, minItems int, actual int) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeMinItems,
		Message:  fmt.Sprintf("must have at least %d items", minItems),
		Received: actual,
		Expected: fmt.Sprintf(">= %d items", minItems),
	}
}

// NewMaxItemsError creates an error for array with too many items
func NewMaxItemsError(path string, maxItems int, actual int) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeMaxItems,
		Message:  fmt.Sprintf("must have at most %d items", maxItems),
		Received: actual,
		Expected: fmt.Sprintf("<= %d items", maxItems),
	}
}

// NewUniqueItemsError creates an error for duplicate items in array
func NewUniqueItemsError(path string, duplicate interface{}) *FieldError {
	return &FieldError{
		Path:     path,
		Code:     ErrCodeUniqueItems,
		Message:  "items must be unique",
		Received: duplicate,
		Expected: "unique items",
	}
}

// NewEnumError creates an error for value not in enum
func NewEnumError(path string, allowed []interface{}, received interface{}) *FieldError {
	allowedStrs := make([]string, len(allowed))
	for i, v := range allowed {
		allowedStrs[i] = fmt.Sprintf("%v", v)
	}

	return &FieldError{
		Path:     path,
		Code:     ErrCodeEnum,
		Message:  fmt.Sprintf("must be one of: %s", strings.Join(allowedStrs, ", ")),
		Received: received,
		Expected: fmt.Sprintf("one of: %s", strings.Join(allowedStrs, ", ")),
	}
}

// NewSchemaError creates an error for JSON Schema validation failure
func NewSchemaError(path, message string) *FieldError {
	return &FieldError{
		Path:    path,
		Code:    ErrCodeSchema,
		Message: message,
	}
}
