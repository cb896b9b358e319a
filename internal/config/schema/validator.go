package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Validator checks configuration data loaded from settings.toml or
// protocol.toml against a Schema — normally the one embedded in
// protoctl.schema.json and loaded via LoadEmbedded.
type Validator struct {
	schema *Schema

	strictMode       bool // unknown properties are errors, not warnings
	collectAllErrors bool // keep validating after the first failure
	maxErrors        int  // stop collecting past this many errors (0 = unlimited)

	patternCache sync.Map // map[string]*regexp.Regexp, keyed by Schema.Pattern
}

// NewValidator creates a validator for the given schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{
		schema:           schema,
		collectAllErrors: true,
		maxErrors:        100,
	}
}

// WithStrictMode enables strict mode (unknown properties are errors).
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// WithCollectAllErrors sets whether to collect all errors or stop at first.
func (v *Validator) WithCollectAllErrors(collect bool) *Validator {
	v.collectAllErrors = collect
	return v
}

// WithMaxErrors sets the maximum number of errors to collect.
func (v *Validator) WithMaxErrors(max int) *Validator {
	v.maxErrors = max
	return v
}

// Validate checks an entire merged configuration tree (the output of
// layer.Manager.Merge) against the schema.
func (v *Validator) Validate(data map[string]any) error {
	if v.schema == nil {
		return nil
	}

	errs := &ValidationErrors{}
	v.check("", data, v.schema, errs)
	return errs.AsError()
}

// ValidatePath checks a single setting — e.g. Config.Set("vision.timeoutMs", 8000)
// validates just that path before writing it to the user-settings layer.
func (v *Validator) ValidatePath(path string, value any) error {
	if v.schema == nil {
		return nil
	}

	propSchema := v.schema.GetProperty(path)
	if propSchema == nil {
		if v.strictMode {
			return NewUnknownPropertyError(path)
		}
		return nil
	}

	errs := &ValidationErrors{}
	v.check(path, value, propSchema, errs)
	return errs.AsError()
}

// check validates value against schema, recording any failure into errs.
func (v *Validator) check(path string, value any, schema *Schema, errs *ValidationErrors) {
	if schema == nil || (v.maxErrors > 0 && errs.Len() >= v.maxErrors) {
		return
	}
	if !v.collectAllErrors && errs.HasErrors() {
		return
	}

	if schema.Ref != "" {
		if refSchema := v.resolveRef(schema.Ref); refSchema != nil {
			v.check(path, value, refSchema, errs)
		}
		return
	}

	for _, s := range schema.AllOf {
		v.check(path, value, s, errs)
	}

	if len(schema.AnyOf) > 0 && !v.anyMatches(path, value, schema.AnyOf) {
		errs.Add(path, "value does not match any of the allowed schemas")
	}

	if len(schema.OneOf) > 0 {
		v.checkOneOf(path, value, schema.OneOf, errs)
	}

	if schema.Not != nil {
		testErrs := &ValidationErrors{}
		v.check(path, value, schema.Not, testErrs)
		if !testErrs.HasErrors() {
			errs.Add(path, "value should not match the schema")
		}
	}

	if schema.Const != nil && !valuesEqual(value, schema.Const) {
		errs.Add(path, fmt.Sprintf("value must be %v", schema.Const))
	}

	if len(schema.Enum) > 0 {
		v.checkEnum(path, value, schema.Enum, errs)
	}

	if !schema.Type.IsEmpty() {
		v.checkType(path, value, schema, errs)
	}
}

// anyMatches reports whether value satisfies at least one candidate schema.
func (v *Validator) anyMatches(path string, value any, candidates []*Schema) bool {
	for _, s := range candidates {
		testErrs := &ValidationErrors{}
		v.check(path, value, s, testErrs)
		if !testErrs.HasErrors() {
			return true
		}
	}
	return false
}

// checkOneOf requires value to satisfy exactly one candidate schema.
func (v *Validator) checkOneOf(path string, value any, candidates []*Schema, errs *ValidationErrors) {
	matches := 0
	for _, s := range candidates {
		testErrs := &ValidationErrors{}
		v.check(path, value, s, testErrs)
		if !testErrs.HasErrors() {
			matches++
		}
	}
	switch {
	case matches == 0:
		errs.Add(path, "value does not match any of the allowed schemas")
	case matches > 1:
		errs.Add(path, "value matches more than one schema (must match exactly one)")
	}
}

// checkType validates value against its declared type(s) and, once a
// match is found, that type's own constraints (range, length, etc).
func (v *Validator) checkType(path string, value any, schema *Schema, errs *ValidationErrors) {
	if value == nil {
		if !schema.Type.Is("null") {
			errs.AddError(NewTypeError(path, schema.Type.String(), value))
		}
		return
	}

	for _, typ := range schema.Type.Types {
		if !v.matchesType(value, typ) {
			continue
		}
		switch typ {
		case "string":
			v.checkString(path, value.(string), schema, errs)
		case "number", "integer":
			v.checkNumber(path, value, schema, typ == "integer", errs)
		case "array":
			v.checkArray(path, value, schema, errs)
		case "object":
			v.checkObject(path, value, schema, errs)
		}
		return
	}

	errs.AddError(NewTypeError(path, schema.Type.String(), value))
}

// matchesType reports whether value's Go representation matches a
// JSON Schema primitive type name.
func (v *Validator) matchesType(value any, typ string) bool {
	switch typ {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		return isNumber(value)
	case "integer":
		return isInteger(value)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		return isArray(value)
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "null":
		return value == nil
	default:
		return false
	}
}

// checkString validates length, pattern, and format constraints on a
// string setting (e.g. vision.backend, safety.abort.key).
func (v *Validator) checkString(path string, value string, schema *Schema, errs *ValidationErrors) {
	if schema.MinLength != nil && len(value) < *schema.MinLength {
		errs.Add(path, fmt.Sprintf("string length %d is less than minimum %d", len(value), *schema.MinLength))
	}
	if schema.MaxLength != nil && len(value) > *schema.MaxLength {
		errs.Add(path, fmt.Sprintf("string length %d is greater than maximum %d", len(value), *schema.MaxLength))
	}
	if schema.Pattern != "" && !v.matchPattern(value, schema.Pattern) {
		errs.AddError(NewPatternError(path, value, schema.Pattern))
	}
	if schema.Format != "" {
		if check, ok := formatCheckers[schema.Format]; ok {
			if msg := check(value); msg != "" {
				errs.Add(path, msg)
			}
		}
	}
}

// formatCheckers maps a schema's "format" hint to the function that
// validates it. Returns a non-empty message on failure.
var formatCheckers = map[string]func(string) string{
	"duration": func(value string) string {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Sprintf("invalid duration format: %s", value)
		}
		return ""
	},
	"uri": checkURI,
	"url": checkURI,
	"email": func(value string) string {
		if _, err := mail.ParseAddress(value); err != nil {
			return fmt.Sprintf("invalid email format: %s", value)
		}
		return ""
	},
	"regex": func(value string) string {
		if _, err := regexp.Compile(value); err != nil {
			return fmt.Sprintf("invalid regex: %s", value)
		}
		return ""
	},
	"color": func(value string) string {
		if !isValidColor(value) {
			return fmt.Sprintf("invalid color format: %s", value)
		}
		return ""
	},
	"path": func(value string) string {
		if value == "" {
			return "path cannot be empty"
		}
		return ""
	},
}

func checkURI(value string) string {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "file://") {
		return ""
	}
	return fmt.Sprintf("invalid URI format: %s", value)
}

// checkNumber validates range and multiple-of constraints on a numeric
// setting (e.g. vision.timeoutMs, screen.width).
func (v *Validator) checkNumber(path string, value any, schema *Schema, requireInt bool, errs *ValidationErrors) {
	f := toFloat64(value)

	if requireInt && !isInteger(value) {
		errs.Add(path, fmt.Sprintf("expected integer, got %v", value))
		return
	}

	if schema.Minimum != nil && f < *schema.Minimum {
		errs.AddError(NewRangeError(path, value, schema.Minimum, schema.Maximum))
	}
	if schema.Maximum != nil && f > *schema.Maximum {
		errs.AddError(NewRangeError(path, value, schema.Minimum, schema.Maximum))
	}
	if schema.ExclusiveMinimum != nil && f <= *schema.ExclusiveMinimum {
		errs.Add(path, fmt.Sprintf("value must be greater than %v", *schema.ExclusiveMinimum))
	}
	if schema.ExclusiveMaximum != nil && f >= *schema.ExclusiveMaximum {
		errs.Add(path, fmt.Sprintf("value must be less than %v", *schema.ExclusiveMaximum))
	}
	if schema.MultipleOf != nil && *schema.MultipleOf != 0 {
		if remainder := math.Mod(f, *schema.MultipleOf); math.Abs(remainder) > 1e-10 {
			errs.Add(path, fmt.Sprintf("value must be a multiple of %v", *schema.MultipleOf))
		}
	}
}

// checkArray validates length and uniqueness constraints on an array
// setting (e.g. safety.allowedApps) and recurses into its items.
func (v *Validator) checkArray(path string, value any, schema *Schema, errs *ValidationErrors) {
	arr := toSlice(value)
	if arr == nil {
		return
	}

	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		errs.Add(path, fmt.Sprintf("array has %d items, minimum is %d", len(arr), *schema.MinItems))
	}
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		errs.Add(path, fmt.Sprintf("array has %d items, maximum is %d", len(arr), *schema.MaxItems))
	}
	if schema.UniqueItems {
		if dup, ok := firstDuplicateIndex(arr); ok {
			errs.Add(path, fmt.Sprintf("array items must be unique, duplicate at index %d", dup))
		}
	}
	if schema.Items != nil {
		for i, item := range arr {
			v.check(fmt.Sprintf("%s[%d]", path, i), item, schema.Items, errs)
		}
	}
}

// firstDuplicateIndex returns the index of the first array element
// that repeats an earlier one, comparing by JSON encoding.
func firstDuplicateIndex(arr []any) (int, bool) {
	seen := make(map[string]bool, len(arr))
	for i, item := range arr {
		key, err := json.Marshal(item)
		var k string
		if err != nil {
			k = fmt.Sprintf("%v", item)
		} else {
			k = string(key)
		}
		if seen[k] {
			return i, true
		}
		seen[k] = true
	}
	return 0, false
}

// checkObject validates required properties and recurses into each
// declared (or, in strict mode, undeclared) property of an object
// setting such as vision or safety.abort.
func (v *Validator) checkObject(path string, value any, schema *Schema, errs *ValidationErrors) {
	obj, ok := value.(map[string]any)
	if !ok {
		return
	}

	for _, req := range schema.Required {
		if _, exists := obj[req]; !exists {
			errs.AddError(NewRequiredError(joinPath(path, req)))
		}
	}

	for name, propValue := range obj {
		propPath := joinPath(path, name)
		if propSchema, ok := schema.Properties[name]; ok {
			v.check(propPath, propValue, propSchema, errs)
		} else if v.strictMode && !schema.AllowsAdditionalProperties() {
			errs.AddError(NewUnknownPropertyError(propPath))
		}
	}
}

// checkEnum validates value is one of schema's allowed enum values.
func (v *Validator) checkEnum(path string, value any, allowed []any, errs *ValidationErrors) {
	for _, a := range allowed {
		if valuesEqual(value, a) {
			return
		}
	}
	errs.AddError(NewEnumError(path, value, allowed))
}

// resolveRef resolves a "#/$defs/Name" reference to its schema.
func (v *Validator) resolveRef(ref string) *Schema {
	if v.schema == nil || v.schema.Defs == nil {
		return nil
	}
	if name, ok := strings.CutPrefix(ref, "#/$defs/"); ok {
		return v.schema.Defs[name]
	}
	return nil
}

// matchPattern reports whether value matches pattern, caching the
// compiled regexp since the same pattern is reused across every
// validation of the same setting path.
func (v *Validator) matchPattern(value, pattern string) bool {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(value)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}

	v.patternCache.Store(pattern, re)
	return re.MatchString(value)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func isInteger(v any) bool {
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float32(int32(val)) == val
	case float64:
		return float64(int64(val)) == val
	default:
		return false
	}
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, []string, []int, []int64, []float64, []bool:
		return true
	default:
		return false
	}
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}

func toInt64(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}

func toSlice(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []string:
		result := make([]any, len(val))
		for i, s := range val {
			result[i] = s
		}
		return result
	case []int:
		result := make([]any, len(val))
		for i, n := range val {
			result[i] = n
		}
		return result
	case []int64:
		result := make([]any, len(val))
		for i, n := range val {
			result[i] = n
		}
		return result
	case []float64:
		result := make([]any, len(val))
		for i, n := range val {
			result[i] = n
		}
		return result
	default:
		return nil
	}
}

func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if isNumber(a) && isNumber(b) {
		if isInteger(a) && isInteger(b) {
			if isLargeUint64(a) || isLargeUint64(b) {
				return toFloat64(a) == toFloat64(b)
			}
			return toInt64(a) == toInt64(b)
		}
		return toFloat64(a) == toFloat64(b)
	}

	return a == b
}

func isLargeUint64(v any) bool {
	val, ok := v.(uint64)
	return ok && val > math.MaxInt64
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func isValidColor(s string) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] == '#' {
		hex := s[1:]
		if len(hex) != 3 && len(hex) != 6 && len(hex) != 8 {
			return false
		}
		for _, c := range hex {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
		return true
	}

	namedColors := map[string]bool{
		"black": true, "white": true, "red": true, "green": true, "blue": true,
		"yellow": true, "cyan": true, "magenta": true, "gray": true, "grey": true,
	}
	return namedColors[strings.ToLower(s)]
}
