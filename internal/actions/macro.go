package actions

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

// registerMacro adds a catalog entry for "macro" so it appears in
// generated documentation and the AI-facing action library export.
// The Executor special-cases Action.IsMacroCall() before consulting the
// registry, so this handler only runs if a macro call somehow reaches
// the registry directly; it re-enters via Dependencies.Macro rather
// than duplicating expansion logic here.
func registerMacro(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "macro",
		Category:    "macro",
		Description: "Invokes a named macro with call-site variable bindings.",
		Required:    []registry.ParamSpec{{Name: "name", Kind: registry.KindString}},
		Optional:    []registry.ParamSpec{{Name: "vars", Kind: registry.KindAny}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if deps.Macro == nil {
				return registry.Result{}, fmt.Errorf("actions: macro: no macro runner configured")
			}
			vars := map[string]string{}
			if params.Has("vars") {
				params.Get("vars").ForEach(func(key, value gjson.Result) bool {
					vars[key.String()] = value.String()
					return true
				})
			}
			name := params.String("name")
			if err := deps.Macro.RunMacro(ctx, ectx, name, vars); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("ran macro " + name), nil
		},
	})
}
