package parser

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

// knownTopLevelKeys are the only keys a protocol document declares;
// anything else warns.
var knownTopLevelKeys = map[string]bool{
	"version": true, "metadata": true, "macros": true, "actions": true,
}

// knownContextVariables are the names the Visual Verifier may inject
// into the ExecutionContext; a macro body may reference
// them without any call site providing a binding.
var knownContextVariables = map[string]bool{
	execctx.VarVerifiedX:                  true,
	execctx.VarVerifiedY:                  true,
	execctx.VarLastVerificationSafe:       true,
	execctx.VarLastVerificationConfidence: true,
	execctx.VarLastVerificationAnalysis:   true,
	execctx.VarSuggestedActions:           true,
}

// coordinateActionParams maps action names that carry screen coordinates
// to the param paths holding its x/y pair, for the coordinate-bounds
// warning; width/height params are not checked.
var coordinateActionParams = map[string][2]string{
	"mouse_move":     {"x", "y"},
	"mouse_drag":     {"to_x", "to_y"},
	"capture_region": {"x", "y"},
}

func (p *Parser) checkUnknownTopLevelKeys(result *ValidationResult, data []byte) {
	gjson.ParseBytes(data).ForEach(func(key, _ gjson.Result) bool {
		name := key.String()
		if !knownTopLevelKeys[name] {
			result.addWarning("unknown top-level key %q", name)
		}
		return true
	})
}

// checkActionSurface validates one action against the registry contract:
// registered name (or "macro" with a defined target), required params
// present, and primitive shapes. Unknown params warn rather than fail,
// deliberately more lenient than the registry's own runtime Execute
// check.
func (p *Parser) checkActionSurface(result *ValidationResult, proto *protocol.Protocol, action protocol.Action, location string) {
	if action.IsMacroCall() {
		name := action.MacroName()
		if name == "" {
			result.addError("%s: macro action missing params.name", location)
			return
		}
		if _, ok := proto.Macros[name]; !ok {
			result.addError("%s: macro action references undefined macro %q", location, name)
		}
		return
	}

	spec, ok := p.registry.Get(action.Name)
	if !ok {
		result.addError("%s: unregistered action %q", location, action.Name)
		return
	}

	for _, req := range spec.Required {
		if !action.Params.Has(req.Name) {
			result.addError("%s: action %q missing required param %q", location, action.Name, req.Name)
		}
	}

	known := make(map[string]bool, len(spec.Required)+len(spec.Optional))
	for _, ps := range spec.Required {
		known[ps.Name] = true
	}
	for _, ps := range spec.Optional {
		known[ps.Name] = true
	}
	for _, key := range action.Params.Keys() {
		if !known[key] {
			result.addWarning("%s: action %q has unknown param %q", location, action.Name, key)
		}
	}

	checkParamShapes(result, action, spec, location)
}

// checkParamShapes flags a param whose JSON kind is structurally
// incompatible with its declared primitive (e.g. an object where a
// string was declared). String values are always accepted for non-list
// kinds since a {{token}} substitution may later resolve to the right
// shape, so this only catches unambiguous mismatches.
func checkParamShapes(result *ValidationResult, action protocol.Action, spec registry.ActionSpec, location string) {
	all := append(append([]registry.ParamSpec{}, spec.Required...), spec.Optional...)
	for _, ps := range all {
		if !action.Params.Has(ps.Name) {
			continue
		}
		r := action.Params.Get(ps.Name)
		switch ps.Kind {
		case registry.KindList:
			if !r.IsArray() {
				result.addError("%s: action %q param %q must be a list", location, action.Name, ps.Name)
			}
		case registry.KindBool:
			if r.Type != gjson.True && r.Type != gjson.False && r.Type != gjson.String {
				result.addError("%s: action %q param %q must be a boolean", location, action.Name, ps.Name)
			}
		case registry.KindInt, registry.KindNumber:
			if r.Type != gjson.Number && r.Type != gjson.String {
				result.addError("%s: action %q param %q must be numeric", location, action.Name, ps.Name)
			}
		}
	}
}

// macroGraphColor tracks DFS visitation state for cycle detection.
type macroGraphColor int

const (
	white macroGraphColor = iota
	gray
	black
)

// checkMacroCycles performs a DFS with gray/black coloring over the
// macro call graph and reports the first cycle found.
func (p *Parser) checkMacroCycles(result *ValidationResult, proto *protocol.Protocol) {
	colors := make(map[string]macroGraphColor, len(proto.Macros))
	for _, name := range proto.MacroNames() {
		if colors[name] == white {
			p.visitMacro(result, proto, name, colors, nil)
		}
	}
}

func (p *Parser) visitMacro(result *ValidationResult, proto *protocol.Protocol, name string, colors map[string]macroGraphColor, path []string) {
	colors[name] = gray
	path = append(path, name)

	body, ok := proto.Macros[name]
	if ok {
		for _, action := range body.Actions {
			if !action.IsMacroCall() {
				continue
			}
			target := action.MacroName()
			if target == name {
				result.addError("macro %q references itself", name)
				continue
			}
			if _, defined := proto.Macros[target]; !defined {
				continue // already reported by checkActionSurface
			}
			switch colors[target] {
			case gray:
				result.addError("cyclic macro reference: %s", cyclePath(path, target))
			case white:
				p.visitMacro(result, proto, target, colors, path)
			}
		}
	}

	colors[name] = black
}

func cyclePath(path []string, closingNode string) string {
	out := ""
	start := 0
	for i, n := range path {
		if n == closingNode {
			start = i
			break
		}
	}
	for _, n := range path[start:] {
		out += n + " → "
	}
	return out + closingNode
}

// checkVariableHygiene verifies every {{name}} token referenced in a
// macro body is bound by at least one call site or is a known context
// variable, and warns when a call site's vars binding is never
// referenced in the body.
func (p *Parser) checkVariableHygiene(result *ValidationResult, proto *protocol.Protocol) {
	callSiteVars := collectCallSiteVars(proto)

	for _, name := range proto.MacroNames() {
		body := proto.Macros[name]
		tokens := macroBodyTokens(body)

		bound := map[string]bool{}
		for _, vars := range callSiteVars[name] {
			for k := range vars {
				bound[k] = true
			}
		}

		for token := range tokens {
			if knownContextVariables[token] {
				continue
			}
			if !bound[token] {
				result.addError("macro %q references {{%s}} but no call site binds it and it is not a known context variable", name, token)
			}
		}

		for _, vars := range callSiteVars[name] {
			for k := range vars {
				if !tokens[k] {
					result.addWarning("macro %q call passes unused var %q", name, k)
				}
			}
		}
	}
}

func collectCallSiteVars(proto *protocol.Protocol) map[string][]map[string]string {
	out := map[string][]map[string]string{}
	var visit func(actions []protocol.Action)
	visit = func(actions []protocol.Action) {
		for _, action := range actions {
			if !action.IsMacroCall() {
				continue
			}
			name := action.MacroName()
			out[name] = append(out[name], action.MacroVars())
		}
	}
	visit(proto.Actions)
	for _, name := range proto.MacroNames() {
		visit(proto.Macros[name].Actions)
	}
	return out
}

func macroBodyTokens(body protocol.Macro) map[string]bool {
	out := map[string]bool{}
	for _, action := range body.Actions {
		collectParamTokens(action.Params.Get("@this"), out)
	}
	return out
}

func collectParamTokens(value gjson.Result, out map[string]bool) {
	switch {
	case value.IsObject():
		value.ForEach(func(_, v gjson.Result) bool {
			collectParamTokens(v, out)
			return true
		})
	case value.IsArray():
		value.ForEach(func(_, v gjson.Result) bool {
			collectParamTokens(v, out)
			return true
		})
	case value.Type == gjson.String:
		for _, tok := range protocol.Tokens(value.String()) {
			out[tok] = true
		}
	}
}

// checkTiming compares the protocol's declared estimated duration
// against the sum of wait_after_ms across all actions and macro
// expansions, warning (not erroring) past a 20% delta.
func (p *Parser) checkTiming(result *ValidationResult, proto *protocol.Protocol) {
	if proto.Metadata.EstimatedDurationSeconds <= 0 {
		return
	}
	actualMs := proto.TotalWaitMs()
	declaredMs := proto.Metadata.EstimatedDurationSeconds * 1000
	delta := math.Abs(float64(actualMs-declaredMs)) / float64(declaredMs)
	if delta > 0.2 {
		result.addWarning(
			"metadata.estimated_duration_seconds (%ds) differs from summed wait_after_ms (%dms) by %.0f%%",
			proto.Metadata.EstimatedDurationSeconds, actualMs, delta*100,
		)
	}
}

// checkCoordinates warns (never errors, since the configured dimensions
// may not match the machine a protocol eventually runs on) when a
// coordinate-bearing action's params fall outside the configured screen
// bounds.
func (p *Parser) checkCoordinates(result *ValidationResult, proto *protocol.Protocol) {
	if p.screenWidth <= 0 || p.screenHeight <= 0 {
		return
	}
	check := func(action protocol.Action, location string) {
		fields, ok := coordinateActionParams[action.Name]
		if !ok {
			return
		}
		x := action.Params.Get(fields[0])
		y := action.Params.Get(fields[1])
		if x.Type == gjson.Number {
			if xi := int(x.Int()); xi < 0 || xi > p.screenWidth {
				result.addWarning("%s: action %q param %q=%d is outside configured screen width %d", location, action.Name, fields[0], xi, p.screenWidth)
			}
		}
		if y.Type == gjson.Number {
			if yi := int(y.Int()); yi < 0 || yi > p.screenHeight {
				result.addWarning("%s: action %q param %q=%d is outside configured screen height %d", location, action.Name, fields[1], yi, p.screenHeight)
			}
		}
	}
	for i, action := range proto.Actions {
		check(action, fmt.Sprintf("actions[%d]", i))
	}
	for _, name := range proto.MacroNames() {
		for i, action := range proto.Macros[name].Actions {
			check(action, fmt.Sprintf("macros.%s[%d]", name, i))
		}
	}
}
