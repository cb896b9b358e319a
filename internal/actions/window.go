package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerWindow(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "open_app",
		Category:    "window",
		Description: "Launches an application by name and tracks it as the active managed process.",
		Required:    []registry.ParamSpec{{Name: "app_name", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Window.OpenApp(ctx, params.String("app_name")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("opened app"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "close_app",
		Category:    "window",
		Description: "Terminates the currently tracked application.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Window.CloseApp(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("closed app"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "switch_window",
		Category:    "window",
		Description: "Switches focus to another window.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Window.SwitchWindow(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("switched window"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "minimize_window",
		Category:    "window",
		Description: "Minimizes the active window.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Window.Minimize(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("minimized"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "maximize_window",
		Category:    "window",
		Description: "Maximizes the active window.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Window.Maximize(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("maximized"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "restore_window",
		Category:    "window",
		Description: "Restores the active window from a minimized or maximized state.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Window.Restore(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("restored"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "get_active_window",
		Category:    "window",
		Description: "Reports the title of the active window.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			title, err := deps.Window.ActiveWindow(ctx)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Success("active window").WithData("title", title), nil
		},
	})
}
