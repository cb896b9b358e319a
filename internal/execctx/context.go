// Package execctx defines the per-run ExecutionContext: the mutable
// state a protocol run accumulates as the Executor (C7) drives actions
// through the Action Registry (C1) and Visual Verifier (C6).
package execctx

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vireodyne/protoctl/internal/protocol"
)

// Context variable names the Visual Verifier injects
const (
	VarVerifiedX                  = "verified_x"
	VarVerifiedY                  = "verified_y"
	VarLastVerificationSafe       = "last_verification_safe"
	VarLastVerificationConfidence = "last_verification_confidence"
	VarLastVerificationAnalysis   = "last_verification_analysis"
	VarSuggestedActions           = "suggested_actions"
)

// ActionResult records the outcome of one executed action, in the order
// actions complete.
type ActionResult struct {
	ActionName string    `json:"action_name"`
	Result     any       `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	ElapsedMs  int64     `json:"elapsed_ms"`
}

// ExecutionError describes a fatal, run-ending error
type ExecutionError struct {
	ActionIndex int            `json:"action_index"`
	ActionName  string         `json:"action_name"`
	ErrorType   string         `json:"error_type"`
	ErrorMessage string        `json:"error_message"`
	Timestamp   time.Time      `json:"timestamp"`
	Params      map[string]any `json:"params,omitempty"`
}

func (e *ExecutionError) Error() string {
	return e.ErrorType + ": " + e.ErrorMessage
}

// VerificationResult is the Visual Verifier's structured verdict.
type VerificationResult struct {
	SafeToProceed       bool           `json:"safe_to_proceed"`
	Confidence          float64        `json:"confidence"`
	Analysis            string         `json:"analysis"`
	UpdatedCoordinates  *Coordinates   `json:"updated_coordinates,omitempty"`
	SuggestedActions    []string       `json:"suggested_actions,omitempty"`
	ModelUsed           string         `json:"model_used"`
}

// Coordinates is a simple x/y pair, used by VerificationResult and the
// mouse-move action family.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ExecutionContext is the per-run mutable state the Executor owns
// exclusively for the lifetime of one protocol run. It is created at the
// start of a run and discarded when the run completes or fails.
//
// ExecutionContext is safe for concurrent access: the Executor mutates it
// from the single logical thread of control driving the run, while
// GetContext/GetExecutionStatus (executor control operations) may read a
// snapshot from another goroutine at any time.
type ExecutionContext struct {
	mu sync.RWMutex

	ProtocolID    string
	RunID         string
	Variables     map[string]string
	ActionResults []ActionResult
	CurrentIndex  int
	StartedAt     time.Time
}

// New creates a fresh ExecutionContext for a run of the named protocol.
// Variables are seeded empty.
func New(protocolID string) *ExecutionContext {
	return &ExecutionContext{
		ProtocolID: protocolID,
		RunID:      uuid.NewString(),
		Variables:  make(map[string]string),
		StartedAt:  time.Now(),
	}
}

// SetVariable sets a context variable. Macro expansion resolves call-site
// vars without it, and verify_screen results go through ApplyVerification.
func (c *ExecutionContext) SetVariable(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Variables[name] = value
}

// GetVariable reads a context variable.
func (c *ExecutionContext) GetVariable(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.Variables[name]
	return v, ok
}

// Resolver returns a protocol.Resolver closure reading from this
// context's variables, the shared lookup mechanism used by both the
// macro expander and the executor's per-action substitution pass.
func (c *ExecutionContext) Resolver() protocol.Resolver {
	return func(name string) (string, bool) {
		return c.GetVariable(name)
	}
}

// ResolverWithOverrides returns a Resolver that consults overrides first
// and falls back to context variables. Macro call-site vars take
// precedence over context variables.
func (c *ExecutionContext) ResolverWithOverrides(overrides map[string]string) protocol.Resolver {
	return func(name string) (string, bool) {
		if v, ok := overrides[name]; ok {
			return v, true
		}
		return c.GetVariable(name)
	}
}

// AppendResult records a completed action's outcome and advances nothing
// else; CurrentIndex is tracked separately by the Executor via SetIndex.
func (c *ExecutionContext) AppendResult(r ActionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ActionResults = append(c.ActionResults, r)
}

// SetIndex records the index of the action about to execute.
func (c *ExecutionContext) SetIndex(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentIndex = i
}

// Index returns the current action index.
func (c *ExecutionContext) Index() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CurrentIndex
}

// ApplyVerification mirrors a VerificationResult into context
// variables. It never halts the run regardless of SafeToProceed.
func (c *ExecutionContext) ApplyVerification(v VerificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v.UpdatedCoordinates != nil {
		c.Variables[VarVerifiedX] = itoa(v.UpdatedCoordinates.X)
		c.Variables[VarVerifiedY] = itoa(v.UpdatedCoordinates.Y)
	}
	c.Variables[VarLastVerificationSafe] = boolToStr(v.SafeToProceed)
	c.Variables[VarLastVerificationConfidence] = ftoa(v.Confidence)
	c.Variables[VarLastVerificationAnalysis] = v.Analysis
	if len(v.SuggestedActions) > 0 {
		c.Variables[VarSuggestedActions] = joinStrings(v.SuggestedActions, ",")
	}
}

// Snapshot is a point-in-time, caller-owned copy of the context, safe to
// read without holding the context's lock. Returned by GetContext and
// embedded in a failed run's ExecutionResult.
type Snapshot struct {
	ProtocolID    string
	RunID         string
	Variables     map[string]string
	ActionResults []ActionResult
	CurrentIndex  int
}

// Snapshot returns a deep copy of the context's current state.
func (c *ExecutionContext) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vars := make(map[string]string, len(c.Variables))
	for k, v := range c.Variables {
		vars[k] = v
	}
	results := make([]ActionResult, len(c.ActionResults))
	copy(results, c.ActionResults)

	return Snapshot{
		ProtocolID:    c.ProtocolID,
		RunID:         c.RunID,
		Variables:     vars,
		ActionResults: results,
		CurrentIndex:  c.CurrentIndex,
	}
}
