package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerFile(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "open_file",
		Category:    "file",
		Description: "Opens a file by path in the focused application.",
		Required:    []registry.ParamSpec{{Name: "path", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.File.Open(ctx, params.String("path")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("opened file"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "save_file",
		Category:    "file",
		Description: "Saves the focused document in place.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.File.Save(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("saved file"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "save_as",
		Category:    "file",
		Description: "Saves the focused document to a new path.",
		Required:    []registry.ParamSpec{{Name: "path", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.File.SaveAs(ctx, params.String("path")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("saved file as"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "open_file_dialog",
		Category:    "file",
		Description: "Triggers the focused application's file-open dialog.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			path, err := deps.File.OpenDialog(ctx)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Success("opened file dialog").WithData("path", path), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "create_folder",
		Category:    "file",
		Description: "Creates a directory, including any missing parents.",
		Required:    []registry.ParamSpec{{Name: "path", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.File.CreateFolder(ctx, params.String("path")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("created folder"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "delete_file",
		Category:    "file",
		Description: "Removes a file or directory tree at the given path.",
		Required:    []registry.ParamSpec{{Name: "path", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.File.Delete(ctx, params.String("path")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("deleted"), nil
		},
	})
}
