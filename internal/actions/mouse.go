package actions

import (
	"context"
	"strconv"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerMouse(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "mouse_move",
		Category:    "mouse",
		Description: "Moves the cursor to an absolute position, optionally along a smooth curved path.",
		Required: []registry.ParamSpec{
			{Name: "x", Kind: registry.KindInt},
			{Name: "y", Kind: registry.KindInt},
		},
		Optional: []registry.ParamSpec{
			{Name: "smooth", Kind: registry.KindBool, Default: true},
			{Name: "speed", Kind: registry.KindNumber, Default: 1.0},
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
			smooth := params.BoolOr("smooth", true)
			speed := 1.0
			if params.Has("speed") {
				speed = params.Get("speed").Float()
			}
			if err := deps.Mouse.Move(ctx, x, y, smooth, speed); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("moved mouse").WithData("x", x).WithData("y", y), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "mouse_click",
		Category:    "mouse",
		Description: "Clicks a mouse button at the current position.",
		Optional: []registry.ParamSpec{
			{Name: "button", Kind: registry.KindString, Default: "left"},
			{Name: "clicks", Kind: registry.KindInt, Default: 1},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Mouse.Click(ctx, params.StringOr("button", "left"), params.IntOr("clicks", 1)); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("clicked"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "mouse_double_click",
		Category:    "mouse",
		Description: "Double-clicks a mouse button at the current position.",
		Optional:    []registry.ParamSpec{{Name: "button", Kind: registry.KindString, Default: "left"}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Mouse.DoubleClick(ctx, params.StringOr("button", "left")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("double-clicked"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "mouse_right_click",
		Category:    "mouse",
		Description: "Right-clicks at the current position.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Mouse.RightClick(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("right-clicked"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "mouse_drag",
		Category:    "mouse",
		Description: "Presses the left button, moves to a target position, and releases.",
		Required: []registry.ParamSpec{
			{Name: "to_x", Kind: registry.KindInt},
			{Name: "to_y", Kind: registry.KindInt},
		},
		Optional: []registry.ParamSpec{
			{Name: "smooth", Kind: registry.KindBool, Default: true},
			{Name: "speed", Kind: registry.KindNumber, Default: 1.0},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			toX, err := params.Int("to_x")
			if err != nil {
				return registry.Result{}, err
			}
			toY, err := params.Int("to_y")
			if err != nil {
				return registry.Result{}, err
			}
			speed := 1.0
			if params.Has("speed") {
				speed = params.Get("speed").Float()
			}
			if err := deps.Mouse.Drag(ctx, toX, toY, params.BoolOr("smooth", true), speed); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("dragged"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "mouse_scroll",
		Category:    "mouse",
		Description: "Scrolls the focused surface in a direction by an amount of wheel ticks.",
		Required: []registry.ParamSpec{
			{Name: "direction", Kind: registry.KindString},
			{Name: "amount", Kind: registry.KindInt},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			amount, err := params.Int("amount")
			if err != nil {
				return registry.Result{}, err
			}
			if err := deps.Mouse.Scroll(ctx, params.String("direction"), amount); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("scrolled"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "mouse_position",
		Category:    "mouse",
		Description: "Reports the cursor's current position.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			x, y, err := deps.Mouse.Position(ctx)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Success("position " + strconv.Itoa(x) + "," + strconv.Itoa(y)).WithData("x", x).WithData("y", y), nil
		},
	})
}
