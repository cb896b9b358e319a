// Package protocol defines the in-memory schema for UI-automation
// protocols: the Protocol/Metadata/Macro/Action tree that the parser
// produces and the executor drives.
package protocol

import (
	"encoding/json"
	"sort"

	"github.com/tidwall/gjson"
)

// Complexity classifies the authored difficulty of a protocol for
// display purposes; it has no effect on execution.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Valid reports whether c is one of the three declared complexity values.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	default:
		return false
	}
}

// Metadata describes a protocol's authoring intent. The parser requires
// only Description; any other field left out takes its zero value.
type Metadata struct {
	Description              string     `json:"description"`
	Complexity               Complexity `json:"complexity"`
	UsesVision               bool       `json:"uses_vision"`
	EstimatedDurationSeconds int        `json:"estimated_duration_seconds"`
}

// Action is one instruction: a call into the Action Registry (or the
// "macro" pseudo-action which the executor expands in place).
type Action struct {
	Name        string `json:"action"`
	Params      Params `json:"params"`
	WaitAfterMs int    `json:"wait_after_ms"`
	Description string `json:"description,omitempty"`
}

// IsMacroCall reports whether this action invokes a macro rather than a
// registered handler.
func (a Action) IsMacroCall() bool {
	return a.Name == "macro"
}

// MacroName returns the macro name this action calls, valid only when
// IsMacroCall is true.
func (a Action) MacroName() string {
	return a.Params.String("name")
}

// MacroVars returns the call-site variable bindings for a macro call, as
// a map of name to the raw string value supplied in the protocol. Per
// , call-site vars take precedence over context variables when
// both define the same name.
func (a Action) MacroVars() map[string]string {
	out := map[string]string{}
	a.Params.Get("vars").ForEach(func(key, val gjson.Result) bool {
		out[key.String()] = val.String()
		return true
	})
	return out
}

// Clone returns a deep copy of the action, including a private copy of
// Params so substitution never mutates a stored Action in place.
func (a Action) Clone() Action {
	clone := a
	clone.Params = a.Params.Clone()
	return clone
}

// Macro is a named, parameterized ordered sequence of actions.
type Macro struct {
	Name    string   `json:"-"`
	Actions []Action `json:"actions"`
}

// Protocol is the root document: a JSON program of actions and macro
// definitions.
type Protocol struct {
	Version  string           `json:"version"`
	Metadata Metadata         `json:"metadata"`
	Macros   map[string]Macro `json:"macros,omitempty"`
	Actions  []Action         `json:"actions"`
}

// UnmarshalJSON implements json.Unmarshaler. It delegates to the default
// field-by-field decode and then stamps each Macro.Name from its map key,
// since JSON object keys don't populate struct fields automatically.
func (p *Protocol) UnmarshalJSON(data []byte) error {
	type alias Protocol
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	for name, m := range a.Macros {
		m.Name = name
		a.Macros[name] = m
	}
	*p = Protocol(a)
	return nil
}

// MacroNames returns the defined macro names in sorted order.
func (p *Protocol) MacroNames() []string {
	names := make([]string, 0, len(p.Macros))
	for name := range p.Macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalWaitMs sums wait_after_ms across top-level actions and, for macro
// calls, the macro body's own waits. Used by the validator's timing
// check.
func (p *Protocol) TotalWaitMs() int {
	total := 0
	for _, action := range p.Actions {
		total += p.actionWaitMs(action, map[string]bool{})
	}
	return total
}

func (p *Protocol) actionWaitMs(action Action, stack map[string]bool) int {
	total := action.WaitAfterMs
	if !action.IsMacroCall() {
		return total
	}
	name := action.MacroName()
	if stack[name] {
		return total // cycle guard; the validator's DFS reports the cycle itself
	}
	macro, ok := p.Macros[name]
	if !ok {
		return total
	}
	stack[name] = true
	for _, inner := range macro.Actions {
		total += p.actionWaitMs(inner, stack)
	}
	delete(stack, name)
	return total
}
