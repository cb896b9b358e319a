package backend

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/vireodyne/protoctl/internal/app"
	"github.com/vireodyne/protoctl/internal/integration/process"
)

// Window backs the window management action category by launching and
// tracking applications through the process supervisor, and shelling
// out to the desktop's native window tool for focus/minimize/maximize
// operations the supervisor itself has no concept of.
type Window struct {
	log        *app.Logger
	supervisor *process.Supervisor

	mu      sync.Mutex
	current *process.Process
}

// NewWindow builds a Window backend backed by supervisor. Callers
// retain ownership of supervisor and are responsible for calling
// Shutdown on it when the executor stops.
func NewWindow(log *app.Logger, supervisor *process.Supervisor) *Window {
	return &Window{log: log.WithField("backend", "window"), supervisor: supervisor}
}

func (w *Window) OpenApp(ctx context.Context, appName string) error {
	w.log.Info("open_app app=%s", appName)
	cmd := exec.CommandContext(context.Background(), appName)
	proc, err := w.supervisor.Start(appName, cmd)
	if err != nil {
		return fmt.Errorf("backend: open_app %q: %w", appName, err)
	}
	w.mu.Lock()
	w.current = proc
	w.mu.Unlock()
	return nil
}

func (w *Window) CloseApp(ctx context.Context) error {
	w.mu.Lock()
	proc := w.current
	w.mu.Unlock()
	if proc == nil {
		return fmt.Errorf("backend: close_app: no tracked application")
	}
	if err := proc.Terminate(); err != nil {
		return fmt.Errorf("backend: close_app: %w", err)
	}
	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		_ = proc.Kill()
	}
	return nil
}

func (w *Window) SwitchWindow(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "wmctrl", "-a", ":ACTIVE:")
	default:
		return ErrUnsupportedPlatform
	}
}

func (w *Window) Minimize(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "xdotool", "getactivewindow", "windowminimize")
	default:
		return ErrUnsupportedPlatform
	}
}

func (w *Window) Maximize(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "wmctrl", "-r", ":ACTIVE:", "-b", "add,maximized_vert,maximized_horz")
	default:
		return ErrUnsupportedPlatform
	}
}

func (w *Window) Restore(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "wmctrl", "-r", ":ACTIVE:", "-b", "remove,maximized_vert,maximized_horz")
	default:
		return ErrUnsupportedPlatform
	}
}

func (w *Window) ActiveWindow(ctx context.Context) (string, error) {
	switch runtime.GOOS {
	case "linux":
		cmd := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowname")
		out, err := cmd.Output()
		if err != nil {
			return "", fmt.Errorf("backend: active_window: %w", err)
		}
		return strings.TrimSpace(string(out)), nil
	default:
		return "", ErrUnsupportedPlatform
	}
}
