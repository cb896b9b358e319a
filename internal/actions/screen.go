package actions

import (
	"context"
	"fmt"
	"os"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerScreen(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "capture_screen",
		Category:    "screen",
		Description: "Captures the full screen as a bitmap.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			bmp, err := deps.Screen.CaptureScreen(ctx)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Success("captured screen").WithData("width", bmp.Width).WithData("height", bmp.Height), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "capture_region",
		Category:    "screen",
		Description: "Captures a rectangular region of the screen as a bitmap.",
		Required: []registry.ParamSpec{
			{Name: "x", Kind: registry.KindInt},
			{Name: "y", Kind: registry.KindInt},
			{Name: "width", Kind: registry.KindInt},
			{Name: "height", Kind: registry.KindInt},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			x, err := params.Int("x")
			if err != nil {
				return registry.Result{}, err
			}
			y, err := params.Int("y")
			if err != nil {
				return registry.Result{}, err
			}
			w, err := params.Int("width")
			if err != nil {
				return registry.Result{}, err
			}
			h, err := params.Int("height")
			if err != nil {
				return registry.Result{}, err
			}
			bmp, err := deps.Screen.CaptureRegion(ctx, x, y, w, h)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Success("captured region").WithData("width", bmp.Width).WithData("height", bmp.Height), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "capture_window",
		Category:    "screen",
		Description: "Captures the active window as a bitmap.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			bmp, err := deps.Screen.CaptureWindow(ctx)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Success("captured window").WithData("width", bmp.Width).WithData("height", bmp.Height), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "save_screenshot",
		Category:    "screen",
		Description: "Captures the full screen and writes it to a file path.",
		Required:    []registry.ParamSpec{{Name: "path", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			bmp, err := deps.Screen.CaptureScreen(ctx)
			if err != nil {
				return registry.Result{}, err
			}
			path := params.String("path")
			if err := os.WriteFile(path, bmp.Data, 0o644); err != nil {
				return registry.Result{}, fmt.Errorf("actions: save_screenshot: %w", err)
			}
			return registry.Success("saved screenshot").WithData("path", path), nil
		},
	})
}
