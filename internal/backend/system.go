package backend

import (
	"context"
	"runtime"

	"github.com/vireodyne/protoctl/internal/app"
)

// System backs lock/sleep/shutdown/restart/volume actions via the host
// platform's native session/power tools.
type System struct {
	log *app.Logger
}

// NewSystem builds a System backend.
func NewSystem(log *app.Logger) *System {
	return &System{log: log.WithField("backend", "system")}
}

func (s *System) Lock(ctx context.Context) error {
	s.log.Info("system lock")
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "loginctl", "lock-session")
	case "darwin":
		return runTool(ctx, "pmset", "displaysleepnow")
	default:
		return ErrUnsupportedPlatform
	}
}

func (s *System) Sleep(ctx context.Context) error {
	s.log.Info("system sleep")
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "systemctl", "suspend")
	case "darwin":
		return runTool(ctx, "pmset", "sleepnow")
	default:
		return ErrUnsupportedPlatform
	}
}

func (s *System) Shutdown(ctx context.Context) error {
	s.log.Warn("system shutdown requested")
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "systemctl", "poweroff")
	case "darwin":
		return runTool(ctx, "shutdown", "-h", "now")
	default:
		return ErrUnsupportedPlatform
	}
}

func (s *System) Restart(ctx context.Context) error {
	s.log.Warn("system restart requested")
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "systemctl", "reboot")
	case "darwin":
		return runTool(ctx, "shutdown", "-r", "now")
	default:
		return ErrUnsupportedPlatform
	}
}

func (s *System) VolumeUp(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "amixer", "set", "Master", "5%+")
	default:
		return ErrUnsupportedPlatform
	}
}

func (s *System) VolumeDown(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "amixer", "set", "Master", "5%-")
	default:
		return ErrUnsupportedPlatform
	}
}

func (s *System) VolumeMute(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "amixer", "set", "Master", "toggle")
	default:
		return ErrUnsupportedPlatform
	}
}
