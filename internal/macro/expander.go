// Package macro implements the Macro Expander (C5): recursive
// substitution of {{var}} tokens in a macro body's action params, with
// nested-macro support and a runtime cycle guard.
package macro

import (
	"fmt"

	"github.com/vireodyne/protoctl/internal/protocol"
)

// Expander produces a flattened, fully-substituted sequence of leaf
// (non-"macro") actions for a macro call. It holds a read-only reference
// to the protocol so macro bodies can be looked up by name.
type Expander struct {
	protocol *protocol.Protocol
}

// New creates an Expander bound to p's macro definitions. p is treated
// as read-only for the expander's lifetime.
func New(p *protocol.Protocol) *Expander {
	return &Expander{protocol: p}
}

// Expand looks up the named macro, substitutes vars (falling back to
// ctxResolve for names the call site didn't bind — call-site vars take
// precedence over context variables), and recursively expands any
// nested "macro" actions found in the body, returning a flat ordered
// list of leaf actions ready for the executor to dispatch.
//
// Expansion is idempotent: calling Expand twice with the same name and
// vars yields structurally identical sequences, since substitution
// never mutates the stored macro body.
func (e *Expander) Expand(name string, vars map[string]string, ctxResolve protocol.Resolver) ([]protocol.Action, error) {
	return e.expand(name, vars, ctxResolve, map[string]bool{})
}

func (e *Expander) expand(name string, vars map[string]string, ctxResolve protocol.Resolver, stack map[string]bool) ([]protocol.Action, error) {
	if stack[name] {
		return nil, fmt.Errorf("%w: %s", ErrCyclicMacro, name)
	}
	body, ok := e.protocol.Macros[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMacro, name)
	}

	stack[name] = true
	defer delete(stack, name)

	resolve := overrideResolver(vars, ctxResolve)

	out := make([]protocol.Action, 0, len(body.Actions))
	for _, action := range body.Actions {
		substituted, err := substituteAction(action, resolve)
		if err != nil {
			return nil, fmt.Errorf("macro %s: %w", name, err)
		}

		if !substituted.IsMacroCall() {
			out = append(out, substituted)
			continue
		}

		nestedName := substituted.MacroName()
		nestedVars := substituted.MacroVars()
		nested, err := e.expand(nestedName, nestedVars, ctxResolve, stack)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
		// The nested macro call's own wait_after_ms (distinct from its
		// expanded sub-actions' waits) still applies once the whole
		// nested sequence completes.
		if substituted.WaitAfterMs > 0 {
			out = append(out, protocol.Action{Name: "delay", Params: delayParams(substituted.WaitAfterMs)})
		}
	}
	return out, nil
}

// substituteAction returns a copy of action with every string param
// token resolved via resolve, using protocol.Substitute so nested
// objects/arrays are handled uniformly.
func substituteAction(action protocol.Action, resolve protocol.Resolver) (protocol.Action, error) {
	params, err := protocol.Substitute(action.Params, resolve)
	if err != nil {
		return protocol.Action{}, err
	}
	clone := action
	clone.Params = params
	return clone, nil
}

// overrideResolver prefers vars (call-site bindings) over ctxResolve
// (context variables).
func overrideResolver(vars map[string]string, ctxResolve protocol.Resolver) protocol.Resolver {
	return func(name string) (string, bool) {
		if v, ok := vars[name]; ok {
			return v, true
		}
		if ctxResolve != nil {
			return ctxResolve(name)
		}
		return "", false
	}
}

func delayParams(ms int) protocol.Params {
	params, _ := protocol.NewParams(map[string]any{"ms": ms})
	return params
}
