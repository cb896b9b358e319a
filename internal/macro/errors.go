package macro

import "errors"

var (
	// ErrUnknownMacro indicates a "macro" action named a macro that is
	// not defined in protocol.Macros.
	ErrUnknownMacro = errors.New("macro: unknown macro")

	// ErrCyclicMacro is the expander's runtime defence-in-depth against
	// a macro call graph cycle the parser should already have rejected
	// statically.
	ErrCyclicMacro = errors.New("macro: cyclic macro reference")
)
