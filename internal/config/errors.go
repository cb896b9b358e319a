package config

import (
	"errors"
	"fmt"

	"github.com/vireodyne/protoctl/internal/config/schema"
)

// Sentinel errors surfaced by Config's accessors and layer operations.
var (
	// ErrSettingNotFound means the dotted path isn't present in any layer.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch means a stored value doesn't convert to the type
	// the caller asked for (GetInt against a string, say).
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed means a value failed schema validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound means a configured settings/protocol TOML file is
	// missing. Load tolerates this for optional layers.
	ErrFileNotFound = errors.New("config file not found")

	// ErrReadOnly means a Set targeted a layer (e.g. defaults, env) that
	// doesn't accept writes.
	ErrReadOnly = errors.New("configuration layer is read-only")

	// ErrInvalidPath means a setting path isn't a well-formed
	// dot-separated identifier.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrLayerNotFound means an operation named a layer the manager never
	// registered (defaults, user-settings, project, environment).
	ErrLayerNotFound = errors.New("layer not found")
)

// ParseError wraps a failure to parse a configuration file, carrying
// enough position information for a useful diagnostic.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports why a single setting path failed schema
// validation.
type ValidationError struct {
	Path    string
	Message string
	Value   any
	Code    ValidationErrorCode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is lets errors.Is(err, ErrValidationFailed) match a *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// asValidationError translates a schema.Validator failure for path
// into the package's own ValidationError, classifying it by the
// schema.Kind of its first recorded failure so callers (a CLI
// reporting "protoctl config set" errors, say) can branch on Code
// instead of matching error strings.
func asValidationError(path string, value any, err error) error {
	verrs, ok := err.(*schema.ValidationErrors)
	if !ok {
		return err
	}
	first := verrs.First()
	if first == nil {
		return err
	}
	return &ValidationError{
		Path:    first.Path,
		Message: first.Message,
		Value:   value,
		Code:    validationCodeForKind(first.Kind),
	}
}

func validationCodeForKind(k schema.Kind) ValidationErrorCode {
	switch k {
	case schema.KindType:
		return ErrCodeTypeMismatch
	case schema.KindEnum:
		return ErrCodeInvalidEnum
	case schema.KindRange:
		return ErrCodeOutOfRange
	case schema.KindPattern:
		return ErrCodePatternMismatch
	case schema.KindRequired:
		return ErrCodeRequiredMissing
	case schema.KindUnknownProperty:
		return ErrCodeUnknownSetting
	default:
		return ErrCodeTypeMismatch
	}
}

// ValidationErrorCode classifies a ValidationError for callers that
// want to react programmatically (surfacing it to a CLI user versus
// retrying, say) instead of matching on the message string.
type ValidationErrorCode uint8

const (
	ErrCodeUnknownSetting ValidationErrorCode = iota
	ErrCodeTypeMismatch
	ErrCodeOutOfRange
	ErrCodeInvalidEnum
	ErrCodePatternMismatch
	ErrCodeRequiredMissing
	ErrCodeDeprecated
)

func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeUnknownSetting:
		return "unknown_setting"
	case ErrCodeTypeMismatch:
		return "type_mismatch"
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	case ErrCodePatternMismatch:
		return "pattern_mismatch"
	case ErrCodeRequiredMissing:
		return "required_missing"
	case ErrCodeDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}

// TypeError is returned by GetString/GetInt/GetBool/GetFloat when the
// stored value's Go type doesn't match what the accessor promises.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is lets errors.Is(err, ErrTypeMismatch) match a *TypeError without
// callers needing to know the concrete type.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
