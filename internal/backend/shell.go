package backend

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrUnsupportedPlatform is returned by a shell-out helper when the
// current GOOS has no mapped native automation tool.
var ErrUnsupportedPlatform = fmt.Errorf("backend: unsupported platform %s", runtime.GOOS)

// runTool invokes name with args and returns a wrapped error on
// non-zero exit, folding stderr into the error for diagnosability.
func runTool(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("backend: %s %v: %w: %s", name, args, err, out)
	}
	return nil
}

// xdotoolKey maps a protocol key name to an xdotool keysym. Most names
// pass through unchanged; the few aliases below cover the common
// cases a protocol author would actually type.
func xdotoolKey(key string) string {
	switch key {
	case "enter", "return":
		return "Return"
	case "esc", "escape":
		return "Escape"
	case "ctrl", "control":
		return "ctrl"
	case "cmd", "super", "win":
		return "super"
	case "space":
		return "space"
	case "tab":
		return "Tab"
	case "backspace":
		return "BackSpace"
	case "delete", "del":
		return "Delete"
	default:
		return key
	}
}
