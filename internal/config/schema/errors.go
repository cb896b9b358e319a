package schema

import (
	"fmt"
	"strings"
)

// Kind classifies why a ValidationError was raised, so a caller like
// Config.Set can translate it into its own error taxonomy without
// parsing Message strings.
type Kind uint8

const (
	KindConstraint Kind = iota
	KindType
	KindEnum
	KindRange
	KindPattern
	KindRequired
	KindUnknownProperty
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindEnum:
		return "enum"
	case KindRange:
		return "range"
	case KindPattern:
		return "pattern"
	case KindRequired:
		return "required"
	case KindUnknownProperty:
		return "unknown_property"
	default:
		return "constraint"
	}
}

// ValidationError describes one setting that failed to validate
// against the embedded protoctl.schema.json — e.g. vision.timeoutMs
// set below its minimum, or safety.abort.key left unset when required.
type ValidationError struct {
	// Path is the dot-separated setting path (e.g. "vision.timeoutMs").
	Path string

	// Kind classifies the failure.
	Kind Kind

	// Message describes what's wrong.
	Message string

	// Value is the invalid value (may be nil).
	Value any

	// Expected describes what was expected.
	Expected string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every setting that failed validation in a
// single Validate or ValidatePath call.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return e.Errors[0].Error()
	default:
		msgs := make([]string, len(e.Errors))
		for i, err := range e.Errors {
			msgs[i] = err.Error()
		}
		return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
	}
}

// Add records a generic constraint failure at path.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message})
}

// AddWithValue records a generic constraint failure along with the
// offending value.
func (e *ValidationErrors) AddWithValue(path, message string, value any) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message, Value: value})
}

// AddError records an already-constructed ValidationError.
func (e *ValidationErrors) AddError(err *ValidationError) {
	e.Errors = append(e.Errors, err)
}

// Merge appends every error in other onto e.
func (e *ValidationErrors) Merge(other *ValidationErrors) {
	if other == nil {
		return
	}
	e.Errors = append(e.Errors, other.Errors...)
}

// HasErrors reports whether any error was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Len returns the number of recorded errors.
func (e *ValidationErrors) Len() int {
	return len(e.Errors)
}

// Clear discards every recorded error.
func (e *ValidationErrors) Clear() {
	e.Errors = nil
}

// AsError returns nil if no errors were recorded, otherwise e itself.
func (e *ValidationErrors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// First returns the first recorded error, or nil if there are none —
// Config.Set uses this to pick a representative failure to surface to
// the caller as its own *ValidationError.
func (e *ValidationErrors) First() *ValidationError {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

// ErrorsForPath returns every error recorded against exactly path.
func (e *ValidationErrors) ErrorsForPath(path string) []*ValidationError {
	var result []*ValidationError
	for _, err := range e.Errors {
		if err.Path == path {
			result = append(result, err)
		}
	}
	return result
}

// ErrorsUnderPath returns every error recorded against path or one of
// its descendants (e.g. "vision" also matches "vision.timeoutMs").
func (e *ValidationErrors) ErrorsUnderPath(path string) []*ValidationError {
	var result []*ValidationError
	prefix := path + "."
	for _, err := range e.Errors {
		if err.Path == path || strings.HasPrefix(err.Path, prefix) {
			result = append(result, err)
		}
	}
	return result
}

// NewValidationError builds a generic constraint failure.
func NewValidationError(path, message string) *ValidationError {
	return &ValidationError{Path: path, Kind: KindConstraint, Message: message}
}

// NewTypeError builds a failure for a value whose Go type doesn't
// match the schema's declared type (e.g. vision.timeoutMs as a string).
func NewTypeError(path string, expected string, actual any) *ValidationError {
	return &ValidationError{
		Path:     path,
		Kind:     KindType,
		Message:  fmt.Sprintf("expected %s, got %T", expected, actual),
		Value:    actual,
		Expected: expected,
	}
}

// NewEnumError builds a failure for a value outside its enum (e.g.
// vision.backend set to something other than a known vision provider).
func NewEnumError(path string, value any, allowed []any) *ValidationError {
	return &ValidationError{
		Path:     path,
		Kind:     KindEnum,
		Message:  fmt.Sprintf("value %v is not one of allowed values: %v", value, allowed),
		Value:    value,
		Expected: fmt.Sprintf("one of %v", allowed),
	}
}

// NewRangeError builds a failure for a numeric value outside
// [min, max] (e.g. screen.width below 1).
func NewRangeError(path string, value any, min, max *float64) *ValidationError {
	var expected string
	switch {
	case min != nil && max != nil:
		expected = fmt.Sprintf("between %v and %v", *min, *max)
	case min != nil:
		expected = fmt.Sprintf(">= %v", *min)
	case max != nil:
		expected = fmt.Sprintf("<= %v", *max)
	default:
		expected = "valid range"
	}
	return &ValidationError{
		Path:     path,
		Kind:     KindRange,
		Message:  fmt.Sprintf("value %v is out of range", value),
		Value:    value,
		Expected: expected,
	}
}

// NewPatternError builds a failure for a string that doesn't match its
// regex pattern (e.g. an allowedApps entry with invalid characters).
func NewPatternError(path string, value, pattern string) *ValidationError {
	return &ValidationError{
		Path:     path,
		Kind:     KindPattern,
		Message:  fmt.Sprintf("value does not match pattern: %s", pattern),
		Value:    value,
		Expected: fmt.Sprintf("pattern: %s", pattern),
	}
}

// NewRequiredError builds a failure for a missing required property
// (e.g. safety.abort.key when safety.abort.enabled is true).
func NewRequiredError(path string) *ValidationError {
	return &ValidationError{Path: path, Kind: KindRequired, Message: "required field is missing"}
}

// NewUnknownPropertyError builds a failure for a setting path that
// isn't declared anywhere in protoctl.schema.json — only raised in
// strict mode.
func NewUnknownPropertyError(path string) *ValidationError {
	return &ValidationError{Path: path, Kind: KindUnknownProperty, Message: "unknown property"}
}
