package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerSystem(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "lock_screen",
		Category:    "system",
		Description: "Locks the session.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.System.Lock(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("locked"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "sleep_system",
		Category:    "system",
		Description: "Suspends the host machine.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.System.Sleep(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("sleeping"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "shutdown_system",
		Category:    "system",
		Description: "Powers off the host machine.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.System.Shutdown(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("shutting down"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "restart_system",
		Category:    "system",
		Description: "Restarts the host machine.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.System.Restart(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("restarting"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "volume_up",
		Category:    "system",
		Description: "Raises system volume one step.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.System.VolumeUp(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("volume up"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "volume_down",
		Category:    "system",
		Description: "Lowers system volume one step.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.System.VolumeDown(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("volume down"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "volume_mute",
		Category:    "system",
		Description: "Toggles the mute state.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.System.VolumeMute(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("muted"), nil
		},
	})
}
