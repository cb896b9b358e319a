package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerBrowser(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "open_url",
		Category:    "browser",
		Description: "Navigates the browser's active tab to a URL.",
		Required:    []registry.ParamSpec{{Name: "url", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.OpenURL(ctx, params.String("url")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("navigated"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_back",
		Category:    "browser",
		Description: "Navigates back in browser history.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.Back(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("went back"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_forward",
		Category:    "browser",
		Description: "Navigates forward in browser history.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.Forward(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("went forward"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_refresh",
		Category:    "browser",
		Description: "Reloads the active tab.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.Refresh(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("refreshed"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_new_tab",
		Category:    "browser",
		Description: "Opens a new browser tab and focuses it.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.NewTab(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("opened new tab"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_close_tab",
		Category:    "browser",
		Description: "Closes the active tab.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.CloseTab(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("closed tab"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_switch_tab",
		Category:    "browser",
		Description: "Focuses the tab at the given index.",
		Required:    []registry.ParamSpec{{Name: "index", Kind: registry.KindInt}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			idx, err := params.Int("index")
			if err != nil {
				return registry.Result{}, err
			}
			if err := deps.Browser.SwitchTab(ctx, idx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("switched tab"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_address_bar",
		Category:    "browser",
		Description: "Navigates via the address bar, equivalent to open_url.",
		Required:    []registry.ParamSpec{{Name: "url", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.AddressBar(ctx, params.String("url")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("navigated via address bar"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_bookmark",
		Category:    "browser",
		Description: "Bookmarks the active page.",
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.Bookmark(ctx); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("bookmarked"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "browser_find",
		Category:    "browser",
		Description: "Finds and scrolls to text on the active page.",
		Required:    []registry.ParamSpec{{Name: "text", Kind: registry.KindString}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			if err := deps.Browser.Find(ctx, params.String("text")); err != nil {
				return registry.Result{}, err
			}
			return registry.Success("found text"), nil
		},
	})
}
