package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerClipboard(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "copy",
		Category:    "clipboard",
		Description: "Sends the focused application's copy shortcut.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Clipboard.Copy(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("copied"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "paste",
		Category:    "clipboard",
		Description: "Sends the focused application's paste shortcut.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Clipboard.Paste(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("pasted"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "cut",
		Category:    "clipboard",
		Description: "Sends the focused application's cut shortcut.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Clipboard.Cut(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("cut"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "get_clipboard",
		Category:    "clipboard",
		Description: "Reads the current OS clipboard contents.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			text, err := deps.Clipboard.Get(ctx)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Success("read clipboard").WithData("text", text), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "set_clipboard",
		Category:    "clipboard",
		Description: "Writes text directly to the OS clipboard.",
		Required:    []registry.ParamSpec{{Name: "text", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Clipboard.Set(ctx, params.String("text")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("wrote clipboard"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "paste_from_clipboard",
		Category:    "clipboard",
		Description: "Writes text to the OS clipboard, then pastes it into the focused application.",
		Required:    []registry.ParamSpec{{Name: "text", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Clipboard.Set(ctx, params.String("text")); err != nil {
				return registry.Result{}, err
			}
			if err := deps.Clipboard.Paste(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("pasted text"), nil
		},
	})
}
