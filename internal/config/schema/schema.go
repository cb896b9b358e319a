// Package schema defines the JSON Schema subset Validator checks
// protoctl configuration against, and loads the schema embedded in
// protoctl.schema.json that describes the vision.*, executor.*,
// screen.*, safety.*, logging.*, process.*, and paths.* settings
// surface.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed protoctl.schema.json
var schemaFS embed.FS

// Schema is one node of a JSON Schema document — either the document
// root or a nested property/item schema.
type Schema struct {
	ID            string `json:"$id,omitempty"`
	SchemaVersion string `json:"$schema,omitempty"`
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`

	// Type is the JSON type (string, number, integer, boolean, array,
	// object, null) — possibly more than one.
	Type SchemaType `json:"type,omitempty"`

	// Object constraints.
	Properties           map[string]*Schema `json:"properties,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
	Required             []string            `json:"required,omitempty"`

	// Array constraints.
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// String constraints.
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"` // e.g. "duration", "uri", "email", "color"

	// Numeric constraints.
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Value constraints.
	Enum    []any `json:"enum,omitempty"`
	Const   any   `json:"const,omitempty"`
	Default any   `json:"default,omitempty"`

	// Composition.
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`

	// Ref references another schema by $ref; Defs holds the document's
	// $defs for Ref to resolve against.
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`

	// protoctl extensions that document and scope settings beyond what
	// plain JSON Schema captures.
	Scope              string   `json:"x-scope,omitempty"` // where the setting applies: global, workspace, session
	Deprecated         bool     `json:"deprecated,omitempty"`
	DeprecationMessage string   `json:"x-deprecation-message,omitempty"`
	Tags               []string `json:"x-tags,omitempty"`
	Order              int      `json:"x-order,omitempty"`
}

// SchemaType represents JSON Schema's "type" keyword, which may be a
// single type name or an array of them.
type SchemaType struct {
	Types []string
}

// UnmarshalJSON accepts both a bare string and an array of strings.
func (t *SchemaType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		t.Types = []string{single}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("type must be string or array of strings: %w", err)
	}
	t.Types = arr
	return nil
}

// MarshalJSON emits a bare string for a single type, an array otherwise.
func (t SchemaType) MarshalJSON() ([]byte, error) {
	if len(t.Types) == 1 {
		return json.Marshal(t.Types[0])
	}
	return json.Marshal(t.Types)
}

// Is reports whether typ is among the declared types.
func (t SchemaType) Is(typ string) bool {
	for _, st := range t.Types {
		if st == typ {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no type was declared (any type is accepted).
func (t SchemaType) IsEmpty() bool {
	return len(t.Types) == 0
}

// String renders the declared type(s) for error messages.
func (t SchemaType) String() string {
	if len(t.Types) == 1 {
		return t.Types[0]
	}
	return fmt.Sprintf("%v", t.Types)
}

var (
	embeddedSchema     *Schema
	embeddedSchemaOnce sync.Once
	embeddedSchemaErr  error
)

// LoadEmbedded parses protoctl.schema.json, the schema New uses by
// default when WithSchemaValidation is enabled. The parse happens
// once; later calls return the cached result.
func LoadEmbedded() (*Schema, error) {
	embeddedSchemaOnce.Do(func() {
		data, err := schemaFS.ReadFile("protoctl.schema.json")
		if err != nil {
			embeddedSchemaErr = fmt.Errorf("reading embedded protoctl.schema.json: %w", err)
			return
		}

		embeddedSchema = &Schema{}
		if err := json.Unmarshal(data, embeddedSchema); err != nil {
			embeddedSchemaErr = fmt.Errorf("parsing embedded protoctl.schema.json: %w", err)
			embeddedSchema = nil
			return
		}
	})

	return embeddedSchema, embeddedSchemaErr
}

// Parse parses a JSON Schema document from bytes — used by tests and
// by anything validating against a schema other than the embedded one.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return s, nil
}

// GetProperty resolves a dot-separated path (e.g. "vision.timeoutMs")
// to the Schema node describing it, or nil if no such property exists.
func (s *Schema) GetProperty(path string) *Schema {
	if s == nil || path == "" {
		return s
	}

	current := s
	for _, part := range pathSegments(path) {
		if current.Properties == nil {
			return nil
		}
		prop, ok := current.Properties[part]
		if !ok {
			return nil
		}
		current = prop
	}
	return current
}

// HasProperty reports whether path resolves to a declared property.
func (s *Schema) HasProperty(path string) bool {
	return s.GetProperty(path) != nil
}

// IsRequired reports whether name is listed in s.Required.
func (s *Schema) IsRequired(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// AllowsAdditionalProperties reports whether an object schema permits
// properties it doesn't explicitly declare. Absent the keyword, JSON
// Schema defaults to true.
func (s *Schema) AllowsAdditionalProperties() bool {
	if s.AdditionalProperties == nil {
		return true
	}
	return *s.AdditionalProperties
}

// pathSegments splits a dot-separated setting path into its parts.
func pathSegments(path string) []string {
	if path == "" {
		return nil
	}

	var parts []string
	var current strings.Builder
	for _, c := range path {
		if c == '.' {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteRune(c)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
