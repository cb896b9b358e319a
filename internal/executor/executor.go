// Package executor implements the Executor (C7): the single logical
// thread of control that drives a parsed protocol's actions through the
// Action Registry (C1), honoring macro expansion (C5), wait timing, and
// verify_screen's non-halting checkpoint semantics.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vireodyne/protoctl/internal/app"
	"github.com/vireodyne/protoctl/internal/config"
	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/macro"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

// sleepTick bounds how often an interruptible sleep rechecks the stop
// flag, so stop_execution takes effect promptly without busy-waiting.
const sleepTick = 50 * time.Millisecond

// Status is an ExecutionResult's terminal (or in-progress, for
// GetExecutionStatus) state.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusStopped Status = "stopped"
	StatusPaused  Status = "paused"
)

// ExecutionResult is the outcome of one ExecuteProtocol call.
type ExecutionResult struct {
	Status           Status
	ActionsCompleted int
	TotalActions     int
	DurationMs       int64
	Error            error
	ErrorDetails     *execctx.ExecutionError
	Context          *execctx.Snapshot
}

// ExecutionStatus answers GetExecutionStatus.
type ExecutionStatus struct {
	IsRunning     bool
	IsPaused      bool
	DryRun        bool
	ProtocolID    string
	CurrentAction string
	TotalActions  int
}

// Executor runs exactly one protocol at a time on a single logical
// thread of control. A concurrent ExecuteProtocol call while one is
// already in progress fails with ErrBusy.
type Executor struct {
	mu   sync.Mutex
	cond *sync.Cond

	reg     *registry.Registry
	cfg     config.ExecutorConfig
	log     *app.Logger
	metrics *Metrics

	running bool
	paused  bool
	stopped bool

	protocolID    string
	currentAction string
	totalActions  int
	ectx          *execctx.ExecutionContext
	expander      *macro.Expander
}

// New builds an Executor bound to reg. cfg carries dry-run and metrics
// settings (internal/config's ExecutorConfig); log is tagged with the
// executor component.
func New(reg *registry.Registry, cfg config.ExecutorConfig, log *app.Logger) *Executor {
	e := &Executor{
		reg: reg,
		cfg: cfg,
		log: log.WithField("component", "executor"),
	}
	e.cond = sync.NewCond(&e.mu)
	if cfg.EnableMetrics {
		e.metrics = NewMetrics()
	}
	return e
}

// ExecuteProtocol runs p start to finish, dispatching each top-level
// action through the registry (or, for macro calls, through the
// expander) in order. It returns ErrBusy if a run is already in
// progress. Per-action failures do not return a Go error; they end the
// run with ExecutionResult.Status == StatusFailed and populate
// ErrorDetails.
func (e *Executor) ExecuteProtocol(ctx context.Context, protocolID string, p *protocol.Protocol) (ExecutionResult, error) {
	return e.runFrom(ctx, protocolID, p, execctx.New(protocolID), 0)
}

// ResumeFrom re-enters a protocol run at fromIndex, reusing ectx's
// accumulated variables and action results instead of starting from a
// blank ExecutionContext. It is meant for a recovery protocol acting on
// the context dump from a prior ExecutionResult whose run failed or was
// stopped: the caller decides whether fromIndex should repeat the
// failed action or skip past it.
func (e *Executor) ResumeFrom(ctx context.Context, protocolID string, p *protocol.Protocol, ectx *execctx.ExecutionContext, fromIndex int) (ExecutionResult, error) {
	if fromIndex < 0 || fromIndex > len(p.Actions) {
		return ExecutionResult{}, fmt.Errorf("executor: resume: index %d out of range for %d actions", fromIndex, len(p.Actions))
	}
	return e.runFrom(ctx, protocolID, p, ectx, fromIndex)
}

func (e *Executor) runFrom(ctx context.Context, protocolID string, p *protocol.Protocol, ectx *execctx.ExecutionContext, fromIndex int) (ExecutionResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ExecutionResult{}, ErrBusy
	}
	if e.cfg.MaxActionsPerRun > 0 && len(p.Actions) > e.cfg.MaxActionsPerRun {
		e.mu.Unlock()
		return ExecutionResult{}, fmt.Errorf("%w: %d actions, limit %d", ErrMaxActionsExceeded, len(p.Actions), e.cfg.MaxActionsPerRun)
	}

	e.running = true
	e.paused = false
	e.stopped = false
	e.protocolID = protocolID
	e.currentAction = ""
	e.totalActions = len(p.Actions)
	e.ectx = ectx
	expander := macro.New(p)
	e.expander = expander
	e.mu.Unlock()

	e.metrics.runStarted()
	started := time.Now()
	runCtx, span := startRunSpan(ctx, protocolID, ectx.RunID)

	status := StatusSuccess
	var execErr *execctx.ExecutionError
	completed := 0

	for i := fromIndex; i < len(p.Actions); i++ {
		action := p.Actions[i]
		if err := e.awaitTurn(runCtx); err != nil {
			if errors.Is(err, ErrAborted) {
				status = StatusStopped
			} else {
				status = StatusFailed
				execErr = &execctx.ExecutionError{
					ActionIndex:  i,
					ActionName:   action.Name,
					ErrorType:    "context_canceled",
					ErrorMessage: err.Error(),
					Timestamp:    time.Now(),
				}
			}
			break
		}

		e.mu.Lock()
		e.currentAction = action.Name
		e.mu.Unlock()
		ectx.SetIndex(i)

		if err := e.dispatchTopLevel(runCtx, ectx, expander, action); err != nil {
			if errors.Is(err, ErrAborted) {
				status = StatusStopped
			} else {
				execErr = asExecutionError(err, i, action.Name)
				status = StatusFailed
			}
			break
		}
		completed++
	}

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	e.metrics.runEnded()

	duration := time.Since(started)
	e.metrics.recordRun(string(status), duration.Seconds())
	var spanErr error
	if execErr != nil {
		spanErr = execErr
	}
	endSpan(span, spanErr)

	snapshot := ectx.Snapshot()
	result := ExecutionResult{
		Status:           status,
		ActionsCompleted: completed,
		TotalActions:     len(p.Actions),
		DurationMs:       duration.Milliseconds(),
		Context:          &snapshot,
	}
	if execErr != nil {
		result.ErrorDetails = execErr
		result.Error = execErr
	}
	return result, nil
}

// dispatchTopLevel runs one authored action, branching to macro
// expansion.
func (e *Executor) dispatchTopLevel(ctx context.Context, ectx *execctx.ExecutionContext, expander *macro.Expander, action protocol.Action) error {
	if action.IsMacroCall() {
		return e.dispatchMacro(ctx, ectx, expander, action)
	}
	return e.dispatchLeaf(ctx, ectx, action)
}

// dispatchMacro substitutes the macro call's own params against context
// (so call-site vars may themselves reference context variables),
// expands the named macro into a flat leaf-action sequence, runs each
// sub-action through the same per-action procedure, and finally applies
// the macro call's own wait_after_ms once the whole sequence completes.
func (e *Executor) dispatchMacro(ctx context.Context, ectx *execctx.ExecutionContext, expander *macro.Expander, action protocol.Action) error {
	params, err := protocol.Substitute(action.Params, ectx.Resolver())
	if err != nil {
		return err
	}
	substituted := action
	substituted.Params = params

	subActions, err := expander.Expand(substituted.MacroName(), substituted.MacroVars(), ectx.Resolver())
	if err != nil {
		return err
	}

	for _, sub := range subActions {
		if err := e.awaitTurn(ctx); err != nil {
			return err
		}
		if err := e.dispatchLeaf(ctx, ectx, sub); err != nil {
			return err
		}
	}

	return e.sleep(ctx, action.WaitAfterMs)
}

// dispatchLeaf runs a single non-macro action: substitute params,
// dispatch through the registry or a dry-run stub, record the result,
// handle verify_screen's checkpoint mirroring, and sleep
// wait_after_ms.
func (e *Executor) dispatchLeaf(ctx context.Context, ectx *execctx.ExecutionContext, action protocol.Action) error {
	actionCtx, span := startActionSpan(ctx, action.Name, ectx.Index())
	start := time.Now()

	params, err := protocol.Substitute(action.Params, ectx.Resolver())
	if err != nil {
		endSpan(span, err)
		e.metrics.recordAction(action.Name, "error", time.Since(start).Seconds())
		return err
	}

	var result registry.Result
	if e.cfg.DryRun {
		result = e.dryRunResult(action.Name, params)
	} else {
		result, err = e.reg.Execute(actionCtx, ectx, action.Name, params)
	}

	elapsed := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.recordAction(action.Name, status, elapsed.Seconds())
	endSpan(span, err)

	ectx.AppendResult(execctx.ActionResult{
		ActionName: action.Name,
		Result:     resultData(result),
		Error:      errString(err),
		Timestamp:  time.Now(),
		ElapsedMs:  elapsed.Milliseconds(),
	})

	if err != nil {
		return err
	}

	if action.Name == "verify_screen" {
		e.handleVerification(ectx, result)
	}

	return e.sleep(ctx, action.WaitAfterMs)
}

// dryRunResult synthesizes a success record carrying the attempted
// params without touching any backend. verify_screen gets a fixed
// "safe" verdict instead, so authoring protocols can be dry-run end to
// end without a vision model.
func (e *Executor) dryRunResult(name string, params protocol.Params) registry.Result {
	if name == "verify_screen" {
		return registry.Success("dry-run: verification skipped").
			WithData("safe_to_proceed", true).
			WithData("confidence", 1.0).
			WithData("model_used", "dry-run")
	}
	return registry.Success("dry-run: not executed").WithData("params", string(params))
}

// handleVerification mirrors a verify_screen result into context
// variables. safe_to_proceed=false never halts
// the run; it only logs a warning so authoring protocols can branch on
// the mirrored context variables in the next action.
func (e *Executor) handleVerification(ectx *execctx.ExecutionContext, result registry.Result) {
	v := execctx.VerificationResult{Analysis: result.Message}
	if sp, ok := result.Data["safe_to_proceed"].(bool); ok {
		v.SafeToProceed = sp
	}
	if c, ok := result.Data["confidence"].(float64); ok {
		v.Confidence = c
	}
	if m, ok := result.Data["model_used"].(string); ok {
		v.ModelUsed = m
	}
	if sa, ok := result.Data["suggested_actions"].([]string); ok {
		v.SuggestedActions = sa
	}
	// verify_screen's Result never carries updated_coordinates (no
	// action reports that key; find_element reports its match as x/y
	// data); UpdatedCoordinates stays nil here.

	ectx.ApplyVerification(v)
	e.metrics.recordVerification(v.SafeToProceed)
	if !v.SafeToProceed {
		e.log.Warn("verify_screen: safe_to_proceed=false, continuing: %s", v.Analysis)
	}
}

// awaitTurn blocks while paused, then reports ErrAborted if stopped —
// the check run before each action.
func (e *Executor) awaitTurn(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.paused && !e.stopped {
		e.cond.Wait()
	}
	if e.stopped {
		return ErrAborted
	}
	return nil
}

// sleep waits ms milliseconds (falling back to
// config.ExecutorConfig.DefaultWaitAfterMs when ms is zero), checking
// the stop flag and ctx every sleepTick so stop_execution takes effect
// promptly rather than after a long wait_after_ms elapses.
func (e *Executor) sleep(ctx context.Context, ms int) error {
	if ms <= 0 {
		ms = e.cfg.DefaultWaitAfterMs
	}
	if ms <= 0 {
		return nil
	}
	deadline := time.Now().Add(time.Duration(ms) * time.Millisecond)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		tick := sleepTick
		if remaining < tick {
			tick = remaining
		}
		select {
		case <-time.After(tick):
		case <-ctx.Done():
			return ctx.Err()
		}
		e.mu.Lock()
		stopped := e.stopped
		e.mu.Unlock()
		if stopped {
			return ErrAborted
		}
	}
}

// RunMacro implements registry.MacroRunner, letting the "macro" catalog
// entry re-enter macro expansion if a macro call somehow reaches the
// registry directly rather than being special-cased by dispatchTopLevel.
// It reuses the in-progress run's Expander, so it only succeeds while a
// protocol is executing.
func (e *Executor) RunMacro(ctx context.Context, ectx *execctx.ExecutionContext, name string, vars map[string]string) error {
	e.mu.Lock()
	expander := e.expander
	e.mu.Unlock()
	if expander == nil {
		return fmt.Errorf("executor: RunMacro: no run in progress")
	}

	subActions, err := expander.Expand(name, vars, ectx.Resolver())
	if err != nil {
		return err
	}
	for _, sub := range subActions {
		if err := e.awaitTurn(ctx); err != nil {
			return err
		}
		if err := e.dispatchLeaf(ctx, ectx, sub); err != nil {
			return err
		}
	}
	return nil
}

// PauseExecution toggles the pause flag, blocking the executor before
// its next action.
func (e *Executor) PauseExecution() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotRunning
	}
	e.paused = true
	return nil
}

// ResumeExecution clears the pause flag and wakes the executor.
func (e *Executor) ResumeExecution() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotRunning
	}
	e.paused = false
	e.cond.Broadcast()
	return nil
}

// StopExecution sets the stop flag. The current action completes and a
// wait_after_ms sleep in progress is cut short, after which
// ExecuteProtocol returns with StatusStopped.
func (e *Executor) StopExecution() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotRunning
	}
	e.stopped = true
	e.cond.Broadcast()
	return nil
}

// GetExecutionStatus reports the executor's current state.
func (e *Executor) GetExecutionStatus() ExecutionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ExecutionStatus{
		IsRunning:     e.running,
		IsPaused:      e.paused,
		DryRun:        e.cfg.DryRun,
		ProtocolID:    e.protocolID,
		CurrentAction: e.currentAction,
		TotalActions:  e.totalActions,
	}
}

// GetContext returns a snapshot of the in-progress (or just-finished)
// run's ExecutionContext, and false if no run has started yet.
func (e *Executor) GetContext() (execctx.Snapshot, bool) {
	e.mu.Lock()
	ectx := e.ectx
	e.mu.Unlock()
	if ectx == nil {
		return execctx.Snapshot{}, false
	}
	return ectx.Snapshot(), true
}

// asExecutionError normalizes any dispatch error into an
// *execctx.ExecutionError, carrying the index and name at which it
// occurred.
func asExecutionError(err error, index int, actionName string) *execctx.ExecutionError {
	var existing *execctx.ExecutionError
	if errors.As(err, &existing) {
		return existing
	}
	return &execctx.ExecutionError{
		ActionIndex:  index,
		ActionName:   actionName,
		ErrorType:    "handler_error",
		ErrorMessage: err.Error(),
		Timestamp:    time.Now(),
	}
}

func resultData(r registry.Result) any {
	if r.Data == nil {
		return r.Message
	}
	data := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	if r.Message != "" {
		data["message"] = r.Message
	}
	return data
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
