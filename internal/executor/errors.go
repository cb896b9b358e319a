package executor

import "errors"

// Executor errors covering the Executor's error taxonomy.
var (
	// ErrBusy indicates ExecuteProtocol was called while a run was
	// already in progress; at most one protocol runs at a time.
	ErrBusy = errors.New("executor: busy")

	// ErrAborted indicates the stop flag was observed before an action
	// dispatched.
	ErrAborted = errors.New("executor: aborted")

	// ErrNotRunning indicates a control operation (pause/resume/stop)
	// was called with no run in progress.
	ErrNotRunning = errors.New("executor: not running")

	// ErrMaxActionsExceeded indicates the protocol's top-level action
	// count (a macro call counts as one) exceeded
	// config.ExecutorConfig.MaxActionsPerRun.
	ErrMaxActionsExceeded = errors.New("executor: max actions per run exceeded")
)
