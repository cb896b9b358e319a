package backend

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"strconv"
	"time"

	"github.com/vireodyne/protoctl/internal/app"
)

// Mouse synthesizes pointer movement and clicks. A "smooth" move walks
// a quadratic Bezier path through a randomized control point rather
// than warping the cursor in a single jump, approximating human
// movement the way a visual verifier would expect to see it on
// successive screenshots.
type Mouse struct {
	log *app.Logger
	pos struct {
		x, y int
	}
}

// NewMouse builds a Mouse backend.
func NewMouse(log *app.Logger) *Mouse {
	return &Mouse{log: log.WithField("backend", "mouse")}
}

func (m *Mouse) Move(ctx context.Context, x, y int, smooth bool, speed float64) error {
	m.log.Debug("mouse_move x=%d y=%d smooth=%v speed=%.2f", x, y, smooth, speed)
	if !smooth {
		if err := m.warp(ctx, x, y); err != nil {
			return err
		}
		m.pos.x, m.pos.y = x, y
		return nil
	}
	return m.moveSmooth(ctx, x, y, speed)
}

// moveSmooth walks a quadratic Bezier curve from the current position
// to (x, y) through a control point offset perpendicular to the
// straight line, so the path bows rather than running dead straight.
func (m *Mouse) moveSmooth(ctx context.Context, x, y int, speed float64) error {
	if speed <= 0 {
		speed = 1.0
	}
	startX, startY := float64(m.pos.x), float64(m.pos.y)
	endX, endY := float64(x), float64(y)

	dist := math.Hypot(endX-startX, endY-startY)
	steps := int(math.Max(8, math.Min(60, dist/12)))

	midX, midY := (startX+endX)/2, (endY+startY)/2
	dx, dy := endX-startX, endY-startY
	length := math.Hypot(dx, dy)
	var nx, ny float64
	if length > 0 {
		nx, ny = -dy/length, dx/length
	}
	bow := (rand.Float64()*0.3 + 0.1) * dist
	if rand.Intn(2) == 0 {
		bow = -bow
	}
	ctrlX, ctrlY := midX+nx*bow, midY+ny*bow

	stepDelay := time.Duration(float64(time.Millisecond) * 8 / speed)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := bezier2(startX, ctrlX, endX, t)
		py := bezier2(startY, ctrlY, endY, t)
		if err := m.warp(ctx, int(px), int(py)); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stepDelay):
		}
	}
	m.pos.x, m.pos.y = x, y
	return nil
}

func bezier2(p0, p1, p2, t float64) float64 {
	u := 1 - t
	return u*u*p0 + 2*u*t*p1 + t*t*p2
}

func (m *Mouse) warp(ctx context.Context, x, y int) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "xdotool", "mousemove", strconv.Itoa(x), strconv.Itoa(y))
	case "darwin":
		return runTool(ctx, "cliclick", "m:"+strconv.Itoa(x)+","+strconv.Itoa(y))
	default:
		return ErrUnsupportedPlatform
	}
}

func (m *Mouse) Click(ctx context.Context, button string, clicks int) error {
	m.log.Debug("mouse_click button=%s clicks=%d", button, clicks)
	if clicks <= 0 {
		clicks = 1
	}
	for i := 0; i < clicks; i++ {
		if err := m.clickOnce(ctx, button); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mouse) clickOnce(ctx context.Context, button string) error {
	switch runtime.GOOS {
	case "linux":
		return runTool(ctx, "xdotool", "click", xdotoolButton(button))
	case "darwin":
		return runTool(ctx, "cliclick", "c:.")
	default:
		return ErrUnsupportedPlatform
	}
}

func (m *Mouse) DoubleClick(ctx context.Context, button string) error {
	return m.Click(ctx, button, 2)
}

func (m *Mouse) RightClick(ctx context.Context) error {
	return m.Click(ctx, "right", 1)
}

func (m *Mouse) Drag(ctx context.Context, toX, toY int, smooth bool, speed float64) error {
	m.log.Debug("mouse_drag toX=%d toY=%d", toX, toY)
	switch runtime.GOOS {
	case "linux":
		if err := runTool(ctx, "xdotool", "mousedown", "1"); err != nil {
			return err
		}
		if err := m.Move(ctx, toX, toY, smooth, speed); err != nil {
			_ = runTool(ctx, "xdotool", "mouseup", "1")
			return err
		}
		return runTool(ctx, "xdotool", "mouseup", "1")
	default:
		return ErrUnsupportedPlatform
	}
}

func (m *Mouse) Scroll(ctx context.Context, direction string, amount int) error {
	m.log.Debug("scroll direction=%s amount=%d", direction, amount)
	button := "4"
	if direction == "down" {
		button = "5"
	}
	switch runtime.GOOS {
	case "linux":
		for i := 0; i < amount; i++ {
			if err := runTool(ctx, "xdotool", "click", button); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnsupportedPlatform
	}
}

func (m *Mouse) Position(ctx context.Context) (int, int, error) {
	return m.pos.x, m.pos.y, nil
}

func xdotoolButton(name string) string {
	switch name {
	case "right":
		return "3"
	case "middle":
		return "2"
	default:
		return "1"
	}
}
