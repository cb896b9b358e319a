package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vireodyne/protoctl/internal/protocol"
)

// compiledParamSchema wraps a compiled JSON Schema for one action's
// parameter contract, built from its Required/Optional ParamSpecs.
// Required keys, unknown keys, and primitive shapes are all expressed
// as one schema document and validated in one pass.
type compiledParamSchema struct {
	schema *jsonschema.Schema
	raw    string
}

func buildParamSchema(actionName string, required, optional []ParamSpec) (*compiledParamSchema, error) {
	properties := make(map[string]any, len(required)+len(optional))
	requiredNames := make([]string, 0, len(required))

	addProp := func(p ParamSpec) {
		prop := map[string]any{}
		if p.Kind != KindAny {
			prop["type"] = string(p.Kind)
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
	}
	for _, p := range required {
		addProp(p)
		requiredNames = append(requiredNames, p.Name)
	}
	for _, p := range optional {
		addProp(p)
	}

	doc := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(requiredNames) > 0 {
		doc["required"] = requiredNames
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %s: %w", actionName, err)
	}

	compiled, err := jsonschema.CompileString(actionName+".schema.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", actionName, err)
	}

	return &compiledParamSchema{schema: compiled, raw: string(raw)}, nil
}

// validate checks params against the compiled schema and translates
// jsonschema's generic ValidationError into the registry's taxonomy
// (MissingParam / UnknownParam / ParamTypeError)
func (s *compiledParamSchema) validate(params protocol.Params) error {
	if s == nil || s.schema == nil {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(params, &decoded); err != nil {
		return fmt.Errorf("%w: invalid params JSON: %v", ErrParamType, err)
	}

	err := s.schema.Validate(decoded)
	if err == nil {
		return nil
	}

	valErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("%w: %v", ErrParamType, err)
	}

	return classifyValidationError(valErr)
}

// classifyValidationError walks jsonschema's (possibly nested) causes
// and maps the first leaf to one of MissingParam/UnknownParam/
// ParamTypeError. jsonschema's messages are stable enough in practice to
// pattern-match on "missing properties", "additionalProperties", and a
// type mismatch ("expected"/"got"/"is not valid") but this only governs
// which sentinel wraps the error; the full detail stays in the message.
func classifyValidationError(err *jsonschema.ValidationError) error {
	leaf := deepestCause(err)
	msg := leaf.Message

	switch {
	case strings.Contains(msg, "missing properties"):
		return fmt.Errorf("%w: %s", ErrMissingParam, msg)
	case strings.Contains(msg, "additionalProperties") || strings.Contains(msg, "additional properties"):
		return fmt.Errorf("%w: %s", ErrUnknownParam, msg)
	default:
		return fmt.Errorf("%w: %s", ErrParamType, msg)
	}
}

func deepestCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	current := err
	for len(current.Causes) > 0 {
		current = current.Causes[0]
	}
	return current
}
