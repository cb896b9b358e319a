// Package parser implements the Parser/Validator (C4): JSON to Protocol
// decoding plus structural, semantic, reference, timing, and coordinate
// checks.
package parser

import "errors"

// ErrValidationFailed is returned by Parse when the ValidationResult
// carries one or more fatal errors; the caller must not execute the
// returned Protocol.
var ErrValidationFailed = errors.New("parser: protocol failed validation")

// ErrMalformedJSON indicates the input could not even be decoded as a
// Protocol-shaped document.
var ErrMalformedJSON = errors.New("parser: malformed protocol JSON")
