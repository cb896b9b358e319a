package backend

import (
	"context"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/vireodyne/protoctl/internal/app"
)

// Keyboard synthesizes key presses via the host platform's native
// automation tool. It satisfies registry.KeyboardController.
type Keyboard struct {
	log *app.Logger
}

// NewKeyboard builds a Keyboard backend.
func NewKeyboard(log *app.Logger) *Keyboard {
	return &Keyboard{log: log.WithField("backend", "keyboard")}
}

func (k *Keyboard) PressKey(ctx context.Context, key string) error {
	k.log.Debug("press_key key=%s", key)
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "xdotool", "key", xdotoolKey(key))
	case "darwin":
		return runTool(ctx, "osascript", "-e", `tell application "System Events" to key code `+key)
	default:
		return ErrUnsupportedPlatform
	}
}

func (k *Keyboard) Shortcut(ctx context.Context, keys []string) error {
	k.log.Debug("shortcut keys=%s", strings.Join(keys, "+"))
	switch runtime.GOOS {
	case "linux":
		mapped := make([]string, len(keys))
		for i, key := range keys {
			mapped[i] = xdotoolKey(key)
		}
		return runTool(ctx, "xdotool", "key", strings.Join(mapped, "+"))
	case "darwin":
		return runTool(ctx, "osascript", "-e", `tell application "System Events" to keystroke "`+strings.Join(keys, "+")+`"`)
	default:
		return ErrUnsupportedPlatform
	}
}

func (k *Keyboard) Type(ctx context.Context, text string, intervalMs int) error {
	k.log.Debug("type length=%d intervalMs=%d", len(text), intervalMs)
	switch runtime.GOOS {
	case "linux":
		args := []string{"type"}
		if intervalMs > 0 {
			args = append(args, "--delay", strconv.Itoa(intervalMs))
		}
		args = append(args, "--", text)
		return runTool(ctx, "xdotool", args...)
	case "darwin":
		if intervalMs > 0 {
			for _, r := range text {
				if err := runTool(ctx, "osascript", "-e", `tell application "System Events" to keystroke "`+string(r)+`"`); err != nil {
					return err
				}
				time.Sleep(time.Duration(intervalMs) * time.Millisecond)
			}
			return nil
		}
		return runTool(ctx, "osascript", "-e", `tell application "System Events" to keystroke "`+text+`"`)
	default:
		return ErrUnsupportedPlatform
	}
}

func (k *Keyboard) HoldKey(ctx context.Context, key string) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "xdotool", "keydown", xdotoolKey(key))
	default:
		return ErrUnsupportedPlatform
	}
}

func (k *Keyboard) ReleaseKey(ctx context.Context, key string) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "xdotool", "keyup", xdotoolKey(key))
	default:
		return ErrUnsupportedPlatform
	}
}
