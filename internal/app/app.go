package app

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Application owns the lifetime of every wired component: config,
// registry, parser, executor, vision verifier, boundary adapter, and
// input backends. main constructs exactly one Application per process
// and calls Shutdown on exit.
type Application struct {
	mu      sync.Mutex
	running bool
	logger  *Logger

	shutdownTimeout time.Duration
	closers         []func(context.Context) error
}

// Config configures an Application's process-level behavior. The
// wiring of config, the action registry, the executor, etc. happens in
// cmd/protoctl, which owns the concrete types each internal package
// exports; Application itself only tracks lifecycle state and shutdown
// hooks so it stays free of an import cycle back into those packages.
type Config struct {
	// ShutdownTimeout bounds how long Shutdown waits for registered
	// closers before giving up and returning ErrShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger is the application-wide logger. Defaults to GetLogger().
	Logger *Logger
}

// New builds an Application in the stopped state.
func New(cfg Config) *Application {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	app := &Application{shutdownTimeout: cfg.ShutdownTimeout}
	app.SetAppLogger(cfg.Logger)
	return app
}

// Start marks the application running. It returns ErrAlreadyRunning if
// called twice without an intervening Shutdown.
func (app *Application) Start() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.running {
		return ErrAlreadyRunning
	}
	app.running = true
	app.LogInfo("application started, shutdown timeout %s", app.shutdownTimeout)
	return nil
}

// RegisterCloser adds fn to the set invoked, in reverse registration
// order, when Shutdown runs. Typical closers: an HTTP server's
// Shutdown, a process supervisor's Shutdown, a config watcher's Stop.
func (app *Application) RegisterCloser(fn func(context.Context) error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.closers = append(app.closers, fn)
	app.LogDebug("registered shutdown closer (%d total)", len(app.closers))
}

// Shutdown runs every registered closer within ShutdownTimeout, closing
// in LIFO order so a component that depends on another (executor before
// its backends, say) tears down first. It returns ErrNotRunning if the
// application was never started, and ErrShutdownTimeout if the deadline
// elapses with closers still outstanding.
func (app *Application) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	if !app.running {
		app.mu.Unlock()
		return ErrNotRunning
	}
	closers := app.closers
	app.closers = nil
	app.running = false
	app.mu.Unlock()

	app.LogInfo("application shutting down, %d closer(s) registered", len(closers))

	ctx, cancel := context.WithTimeout(ctx, app.shutdownTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](ctx); err != nil {
				app.logComponentError(fmt.Sprintf("closer[%d]", i), err)
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			done <- fmt.Errorf("app: shutdown: %d closer(s) failed: %v", len(errs), errs)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err == nil {
			app.LogInfo("application shutdown complete")
		}
		return err
	case <-ctx.Done():
		app.LogWarn("application shutdown timed out after %s", app.shutdownTimeout)
		return ErrShutdownTimeout
	}
}

// IsRunning reports whether Start has been called without a matching
// Shutdown.
func (app *Application) IsRunning() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.running
}
