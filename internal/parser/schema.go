package parser

import (
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// protocolSchemaDoc is the structural shape of a Protocol document. It
// only constrains required keys and primitive types; unknown-key and
// param-contract warnings are handled by the parser's own semantic
// passes in validate.go, since those must produce warnings rather than
// hard jsonschema failures.
const protocolSchemaDoc = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "metadata", "actions"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "metadata": {
      "type": "object",
      "required": ["description"],
      "properties": {
        "description": {"type": "string", "minLength": 1},
        "complexity": {"type": "string", "enum": ["simple", "medium", "complex"]},
        "uses_vision": {"type": "boolean"},
        "estimated_duration_seconds": {"type": "integer", "minimum": 0}
      }
    },
    "macros": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/actionList"}
    },
    "actions": {
      "$ref": "#/definitions/actionList",
      "minItems": 1
    }
  },
  "definitions": {
    "actionList": {
      "type": "array",
      "items": {"$ref": "#/definitions/action"}
    },
    "action": {
      "type": "object",
      "required": ["action"],
      "properties": {
        "action": {"type": "string", "minLength": 1},
        "params": {"type": "object"},
        "wait_after_ms": {"type": "integer", "minimum": 0},
        "description": {"type": "string"}
      }
    }
  }
}`

var (
	protocolSchemaOnce sync.Once
	protocolSchema     *jsonschema.Schema
	protocolSchemaErr  error
)

func compiledProtocolSchema() (*jsonschema.Schema, error) {
	protocolSchemaOnce.Do(func() {
		protocolSchema, protocolSchemaErr = jsonschema.CompileString("protocol.schema.json", protocolSchemaDoc)
	})
	return protocolSchema, protocolSchemaErr
}
