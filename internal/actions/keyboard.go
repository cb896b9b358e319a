package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerKeyboard(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "press_key",
		Category:    "keyboard",
		Description: "Presses and releases a single key.",
		Required:    []registry.ParamSpec{{Name: "key", Kind: registry.KindString, Description: "Key name, e.g. enter, escape, a"}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Keyboard.PressKey(ctx, params.String("key")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("pressed key"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "shortcut",
		Category:    "keyboard",
		Description: "Presses a chord of keys simultaneously, e.g. ctrl+c.",
		Required:    []registry.ParamSpec{{Name: "keys", Kind: registry.KindList, Description: "Ordered modifier+key names"}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Keyboard.Shortcut(ctx, params.StringSlice("keys")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("sent shortcut"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "type",
		Category:    "keyboard",
		Description: "Types text character by character, optionally with a per-character delay.",
		Required:    []registry.ParamSpec{{Name: "text", Kind: registry.KindString}},
		Optional:    []registry.ParamSpec{{Name: "interval_ms", Kind: registry.KindInt, Default: 0}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Keyboard.Type(ctx, params.String("text"), params.IntOr("interval_ms", 0)); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("typed text"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "type_with_delay",
		Category:    "keyboard",
		Description: "Types text with an explicit per-character delay; a named alias of type for protocols that always pace input.",
		Required: []registry.ParamSpec{
			{Name: "text", Kind: registry.KindString},
			{Name: "interval_ms", Kind: registry.KindInt},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			n, err := params.Int("interval_ms")
			if err != nil {
				return registry.Result{}, err
			}
			if err := deps.Keyboard.Type(ctx, params.String("text"), n); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("typed text with delay"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "hold_key",
		Category:    "keyboard",
		Description: "Presses and holds a key without releasing it.",
		Required:    []registry.ParamSpec{{Name: "key", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Keyboard.HoldKey(ctx, params.String("key")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("holding key"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "release_key",
		Category:    "keyboard",
		Description: "Releases a previously held key.",
		Required:    []registry.ParamSpec{{Name: "key", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Keyboard.ReleaseKey(ctx, params.String("key")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("released key"), nil
		},
	})
}
