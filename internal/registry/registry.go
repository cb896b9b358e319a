// Package registry implements the Action Registry (C1): the catalog of
// primitive action handlers, their typed parameter contracts, and the
// injectable backends handlers consult at call time.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
)

// ParamKind names the primitive JSON Schema type a parameter must match.
type ParamKind string

const (
	KindString ParamKind = "string"
	KindInt    ParamKind = "integer"
	KindNumber ParamKind = "number"
	KindBool   ParamKind = "boolean"
	KindList   ParamKind = "array"
	KindAny    ParamKind = "any"
)

// ParamSpec describes one parameter in an action's contract.
type ParamSpec struct {
	Name        string
	Kind        ParamKind
	Description string
	Default     any // only meaningful for optional params
}

// Example is a sample call shown in generated documentation and the
// AI-facing action library export.
type Example struct {
	Description string
	Params      map[string]any
}

// Result is the outcome of a successful handler call.
type Result struct {
	Message string
	Data    map[string]any
}

// WithData returns a copy of r with key/value merged into Data.
func (r Result) WithData(key string, value any) Result {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// Success builds a Result carrying no data, just a message.
func Success(message string) Result {
	return Result{Message: message}
}

// HandlerFunc is the callable backing an action name.
type HandlerFunc func(ctx context.Context, deps *Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (Result, error)

// ActionSpec is one catalog entry: category, description, handler, and
// its parameter contract.
type ActionSpec struct {
	Name        string
	Category    string
	Description string
	Handler     HandlerFunc
	Required    []ParamSpec
	Optional    []ParamSpec
	Returns     string
	Examples    []Example

	schema *compiledParamSchema
}

func (a *ActionSpec) defaults() map[string]any {
	out := make(map[string]any, len(a.Optional))
	for _, p := range a.Optional {
		if p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out
}

// Registry is the Action Registry (C1): a name-keyed catalog of
// ActionSpecs plus the injected backends handlers may consult.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*ActionSpec
	deps    Dependencies
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{actions: make(map[string]*ActionSpec)}
}

// InjectDependencies stores backend references for handlers to consult
// at dispatch time.
func (r *Registry) InjectDependencies(deps Dependencies) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps = deps
}

// Dependencies returns the currently injected backends.
func (r *Registry) Dependencies() Dependencies {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deps
}

// Register adds a new action to the catalog. It fails if name is
// already registered.
func (r *Registry) Register(spec ActionSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("registry: action spec has empty name")
	}
	if spec.Handler == nil {
		return fmt.Errorf("registry: action %q has nil handler", spec.Name)
	}

	schema, err := buildParamSchema(spec.Name, spec.Required, spec.Optional)
	if err != nil {
		return fmt.Errorf("registry: build schema for %q: %w", spec.Name, err)
	}
	spec.schema = schema

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, spec.Name)
	}
	stored := spec
	r.actions[spec.Name] = &stored
	return nil
}

// MustRegister registers spec and panics on error. Used by init-time
// registration where a failure indicates a programming error.
func (r *Registry) MustRegister(spec ActionSpec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Has reports whether name is a registered action.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[name]
	return ok
}

// Get returns the ActionSpec for name, if registered.
func (r *Registry) Get(name string) (ActionSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.actions[name]
	if !ok {
		return ActionSpec{}, false
	}
	return *spec, true
}

// List returns the specs of the registered actions in a category, or
// of all actions if category is empty, sorted for stable output.
func (r *Registry) List(category string) []ActionSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ActionSpec, 0, len(r.actions))
	for _, spec := range r.actions {
		if category != "" && spec.Category != category {
			continue
		}
		out = append(out, *spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute validates params against the action's contract, merges in
// optional-parameter defaults, and invokes the handler. Validation
// errors classify as MissingParam/UnknownParam/ParamTypeError; handler
// errors are wrapped as HandlerError.
func (r *Registry) Execute(ctx context.Context, ectx *execctx.ExecutionContext, name string, params protocol.Params) (Result, error) {
	r.mu.RLock()
	spec, ok := r.actions[name]
	deps := r.deps
	r.mu.RUnlock()

	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	merged, err := params.WithDefaults(spec.defaults())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrParamType, name, err)
	}

	if err := spec.schema.validate(merged); err != nil {
		return Result{}, err
	}

	result, err := func() (result Result, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("%w: %s: panic: %v", ErrHandler, name, rec)
			}
		}()
		return spec.Handler(ctx, &deps, ectx, merged)
	}()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrHandler, name, err)
	}
	return result, nil
}
