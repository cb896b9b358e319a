// Package boundary implements the Boundary Adapter (C8): the transport
// boundary that decodes protocol submissions, invokes the Parser, and
// drives the Executor.
package boundary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vireodyne/protoctl/internal/app"
	"github.com/vireodyne/protoctl/internal/executor"
	"github.com/vireodyne/protoctl/internal/parser"
)

// RunReport is what the Adapter returns for a submitted protocol: either
// a validation failure (Validation populated, Execution nil) or a
// completed execution (both populated).
type RunReport struct {
	ProtocolID string                    `json:"protocol_id"`
	Valid      bool                      `json:"valid"`
	Validation parser.ValidationResult   `json:"validation"`
	Execution  *executor.ExecutionResult `json:"execution,omitempty"`
}

// Adapter wires the Parser and Executor together behind a
// transport-agnostic Submit call. internal/boundary's http.go and ws.go
// are two concrete transports built on this same Adapter: decode the
// payload, invoke the Parser, and call the Executor.
type Adapter struct {
	parser *parser.Parser
	exec   *executor.Executor
	log    *app.Logger
}

// New builds an Adapter. The Adapter performs no additional semantic
// checks beyond what p and e already enforce.
func New(p *parser.Parser, e *executor.Executor, log *app.Logger) *Adapter {
	return &Adapter{parser: p, exec: e, log: log.WithField("component", "boundary")}
}

// Submit decodes raw protocol JSON, validates it, and — if valid —
// drives it through the Executor to completion. It never returns a Go
// error for a rejected protocol; instead RunReport.Valid is false and
// RunReport.Validation carries the lint report, matching the Adapter's
// "emit a failure report without executing" contract. A transport-level
// error (malformed payload byte stream, Executor busy) is returned as
// err.
func (a *Adapter) Submit(ctx context.Context, raw []byte) (RunReport, error) {
	proto, result, err := a.parser.Parse(raw)
	if err != nil && proto == nil {
		a.log.Warn("protocol rejected: %s", result.Lint())
		return RunReport{Valid: false, Validation: result}, nil
	}

	protocolID := uuid.NewString()
	execResult, err := a.exec.ExecuteProtocol(ctx, protocolID, proto)
	if err != nil {
		return RunReport{}, fmt.Errorf("boundary: execute: %w", err)
	}

	return RunReport{
		ProtocolID: protocolID,
		Valid:      true,
		Validation: result,
		Execution:  &execResult,
	}, nil
}

// Validate decodes and validates raw protocol JSON without executing it,
// backing both the `protoctl validate` CLI command and a dedicated
// validate-only HTTP route.
func (a *Adapter) Validate(raw []byte) (parser.ValidationResult, error) {
	_, result, err := a.parser.Parse(raw)
	if err != nil && result.IsValid {
		return result, fmt.Errorf("boundary: parse: %w", err)
	}
	return result, nil
}

// marshalReport renders a RunReport as pretty JSON for transports that
// want a body rather than a Go value; it produces the same indented
// shape the CLI's `run` command writes with its own json.Encoder.
func marshalReport(r RunReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
