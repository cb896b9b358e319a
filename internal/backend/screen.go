package backend

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // decode captured PNGs to recover width/height
	"os"
	"os/exec"
	"runtime"

	"github.com/vireodyne/protoctl/internal/app"
	"github.com/vireodyne/protoctl/internal/registry"
)

// Screen captures bitmaps via the host platform's native screenshot
// tool (scrot on Linux, screencapture on macOS), satisfying
// registry.ScreenCapture.
type Screen struct {
	log *app.Logger
}

// NewScreen builds a Screen backend.
func NewScreen(log *app.Logger) *Screen {
	return &Screen{log: log.WithField("backend", "screen")}
}

func (s *Screen) CaptureScreen(ctx context.Context) (registry.Bitmap, error) {
	return s.captureArgs(ctx, nil)
}

func (s *Screen) CaptureRegion(ctx context.Context, x, y, w, h int) (registry.Bitmap, error) {
	switch runtime.GOOS {
	case "linux":
		geometry := fmt.Sprintf("%d,%d,%d,%d", x, y, w, h)
		return s.captureArgs(ctx, []string{"-a", geometry})
	case "darwin":
		region := fmt.Sprintf("%d,%d,%d,%d", x, y, w, h)
		return s.captureArgs(ctx, []string{"-R", region})
	default:
		return registry.Bitmap{}, ErrUnsupportedPlatform
	}
}

func (s *Screen) CaptureWindow(ctx context.Context) (registry.Bitmap, error) {
	switch runtime.GOOS {
	case "linux":
		return s.captureArgs(ctx, []string{"-u"})
	case "darwin":
		return s.captureArgs(ctx, []string{"-w"})
	default:
		return registry.Bitmap{}, ErrUnsupportedPlatform
	}
}

func (s *Screen) captureArgs(ctx context.Context, extra []string) (registry.Bitmap, error) {
	tmp, err := os.CreateTemp("", "protoctl-capture-*.png")
	if err != nil {
		return registry.Bitmap{}, fmt.Errorf("backend: create capture temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		args := append(append([]string{}, extra...), path)
		cmd = exec.CommandContext(ctx, "scrot", args...)
	case "darwin":
		args := append(append([]string{}, extra...), path)
		cmd = exec.CommandContext(ctx, "screencapture", args...)
	default:
		return registry.Bitmap{}, ErrUnsupportedPlatform
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return registry.Bitmap{}, fmt.Errorf("backend: capture: %w: %s", err, out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return registry.Bitmap{}, fmt.Errorf("backend: read capture: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return registry.Bitmap{}, fmt.Errorf("backend: decode capture dimensions: %w", err)
	}

	s.log.Debug("captured screen width=%d height=%d bytes=%d", cfg.Width, cfg.Height, len(data))
	return registry.Bitmap{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: "png",
		Data:   data,
	}, nil
}
