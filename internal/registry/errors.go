package registry

import "errors"

// Registry errors covering the Action Registry's error taxonomy.
var (
	// ErrAlreadyRegistered indicates register() was called twice for the
	// same action name.
	ErrAlreadyRegistered = errors.New("registry: action already registered")

	// ErrUnknownAction indicates execute() was called for a name that is
	// not in the catalog.
	ErrUnknownAction = errors.New("registry: unknown action")

	// ErrMissingParam indicates a required parameter was not supplied.
	ErrMissingParam = errors.New("registry: missing required parameter")

	// ErrUnknownParam indicates params contained a key not declared by
	// the action's contract.
	ErrUnknownParam = errors.New("registry: unknown parameter")

	// ErrParamType indicates a supplied parameter's shape did not match
	// its declared primitive.
	ErrParamType = errors.New("registry: parameter has wrong type")

	// ErrHandler wraps any error or panic a handler produced.
	ErrHandler = errors.New("registry: handler error")

	// ErrNoDependencies indicates a handler needed an injected backend
	// that was never set.
	ErrNoDependencies = errors.New("registry: required backend not injected")
)
