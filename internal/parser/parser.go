package parser

import (
	"encoding/json"
	"fmt"

	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

// Parser is the Parser/Validator (C4): it turns raw protocol JSON into a
// *protocol.Protocol plus a ValidationResult. A Parser is bound to a
// Registry (to check action names and param contracts) and an optional
// screen size (for the coordinate-bounds warning).
type Parser struct {
	registry     *registry.Registry
	screenWidth  int
	screenHeight int
}

// New builds a Parser against reg. screenWidth/screenHeight may be zero
// to disable the coordinate-bounds check (e.g. in a headless CI run
// where no display is attached).
func New(reg *registry.Registry, screenWidth, screenHeight int) *Parser {
	return &Parser{registry: reg, screenWidth: screenWidth, screenHeight: screenHeight}
}

// Parse validates and decodes raw protocol JSON. When the returned
// ValidationResult.IsValid is false, the returned *protocol.Protocol is
// nil and err wraps ErrValidationFailed; callers must never execute an
// invalid protocol.
func (p *Parser) Parse(data []byte) (*protocol.Protocol, ValidationResult, error) {
	result := ValidationResult{IsValid: true}

	schema, err := compiledProtocolSchema()
	if err != nil {
		return nil, result, fmt.Errorf("parser: compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.addError("malformed JSON: %v", err)
		return nil, result, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if err := schema.Validate(doc); err != nil {
		result.addError("structural validation failed: %v", err)
		return nil, result, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	var proto protocol.Protocol
	if err := json.Unmarshal(data, &proto); err != nil {
		result.addError("decode failed: %v", err)
		return nil, result, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	p.checkUnknownTopLevelKeys(&result, data)
	p.validateProtocol(&proto, &result)

	if !result.IsValid {
		return nil, result, ErrValidationFailed
	}
	return &proto, result, nil
}

// ParseMap validates and decodes a protocol already represented as a
// generic Go value (e.g. a map[string]any produced by an upstream HTTP
// handler's own JSON decoding), rather than a raw JSON byte string.
func (p *Parser) ParseMap(doc map[string]any) (*protocol.Protocol, ValidationResult, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, ValidationResult{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return p.Parse(data)
}

// validateProtocol runs every semantic pass against an already
// structurally-valid Protocol.
func (p *Parser) validateProtocol(proto *protocol.Protocol, result *ValidationResult) {
	if !proto.Metadata.Complexity.Valid() && proto.Metadata.Complexity != "" {
		result.addWarning("metadata.complexity %q is not one of simple/medium/complex", proto.Metadata.Complexity)
	}

	for i, action := range proto.Actions {
		p.checkActionSurface(result, proto, action, fmt.Sprintf("actions[%d]", i))
	}
	for _, name := range proto.MacroNames() {
		for i, action := range proto.Macros[name].Actions {
			p.checkActionSurface(result, proto, action, fmt.Sprintf("macros.%s[%d]", name, i))
		}
	}

	p.checkMacroCycles(result, proto)
	p.checkVariableHygiene(result, proto)
	p.checkTiming(result, proto)
	p.checkCoordinates(result, proto)
}
