package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerEdit(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "select_all",
		Category:    "edit",
		Description: "Selects all content in the focused editor.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Edit.SelectAll(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("selected all"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "undo",
		Category:    "edit",
		Description: "Undoes the last edit.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Edit.Undo(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("undone"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "redo",
		Category:    "edit",
		Description: "Redoes the last undone edit.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Edit.Redo(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("redone"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "find_replace",
		Category:    "edit",
		Description: "Opens find/replace and substitutes one string for another.",
		Required: []registry.ParamSpec{
			{Name: "find", Kind: registry.KindString},
			{Name: "replace", Kind: registry.KindString},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Edit.FindReplace(ctx, params.String("find"), params.String("replace")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("replaced"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "delete_line",
		Category:    "edit",
		Description: "Deletes the current line.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Edit.DeleteLine(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("deleted line"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "duplicate_line",
		Category:    "edit",
		Description: "Duplicates the current line.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Edit.DuplicateLine(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("duplicated line"), nil
		},
	})
}
