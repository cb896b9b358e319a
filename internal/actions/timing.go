package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

const pollInterval = 200 * time.Millisecond

func registerTiming(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "delay",
		Category:    "timing",
		Description: "Pauses execution for a fixed duration.",
		Required:    []registry.ParamSpec{{Name: "ms", Kind: registry.KindInt}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			ms, err := params.Int("ms")
			if err != nil {
				return registry.Result{}, err
			}
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return registry.Result{}, ctx.Err()
			}
			return registry.Success("delayed"), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "wait_for_window",
		Category:    "timing",
		Description: "Polls the active window's title until it contains the given substring or the timeout elapses.",
		Required:    []registry.ParamSpec{{Name: "title", Kind: registry.KindString}},
		Optional:    []registry.ParamSpec{{Name: "timeout_ms", Kind: registry.KindInt, Default: 5000}},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			title := params.String("title")
			timeout := time.Duration(params.IntOr("timeout_ms", 5000)) * time.Millisecond
			deadline := time.Now().Add(timeout)

			for {
				active, err := deps.Window.ActiveWindow(ctx)
				if err == nil && strings.Contains(active, title) {
					return registry.Success("window found").WithData("title", active), nil
				}
				if time.Now().After(deadline) {
					return registry.Result{}, fmt.Errorf("actions: wait_for_window: timed out waiting for %q", title)
				}
				select {
				case <-time.After(pollInterval):
				case <-ctx.Done():
					return registry.Result{}, ctx.Err()
				}
			}
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "wait_for_image",
		Category:    "timing",
		Description: "Polls a verify_screen check until the described image is present or the timeout elapses.",
		Required: []registry.ParamSpec{
			{Name: "context", Kind: registry.KindString},
			{Name: "expected", Kind: registry.KindString},
		},
		Optional: []registry.ParamSpec{
			{Name: "timeout_ms", Kind: registry.KindInt, Default: 10000},
			{Name: "confidence_threshold", Kind: registry.KindNumber, Default: 0.8},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			return pollVerify(ctx, deps, ectx, params, "wait_for_image")
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "wait_for_color",
		Category:    "timing",
		Description: "Polls a verify_screen check until the described color state is present or the timeout elapses.",
		Required: []registry.ParamSpec{
			{Name: "context", Kind: registry.KindString},
			{Name: "expected", Kind: registry.KindString},
		},
		Optional: []registry.ParamSpec{
			{Name: "timeout_ms", Kind: registry.KindInt, Default: 10000},
			{Name: "confidence_threshold", Kind: registry.KindNumber, Default: 0.8},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			return pollVerify(ctx, deps, ectx, params, "wait_for_color")
		},
	})
}

// pollVerify backs wait_for_image and wait_for_color: both reduce to
// polling the Visual Verifier until it reports safe_to_proceed or the
// caller's timeout elapses.
func pollVerify(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params, name string) (registry.Result, error) {
	threshold := 0.8
	if params.Has("confidence_threshold") {
		threshold = params.Get("confidence_threshold").Float()
	}
	timeout := time.Duration(params.IntOr("timeout_ms", 10000)) * time.Millisecond
	deadline := time.Now().Add(timeout)

	req := registry.VerifyRequest{
		Context:             params.String("context"),
		Expected:            params.String("expected"),
		ConfidenceThreshold: threshold,
	}

	for {
		v, err := deps.Verifier.Verify(ctx, req)
		if err == nil && v.SafeToProceed {
			ectx.ApplyVerification(v)
			return registry.Success(name + " satisfied").WithData("analysis", v.Analysis), nil
		}
		if time.Now().After(deadline) {
			return registry.Result{}, fmt.Errorf("actions: %s: timed out waiting for %q", name, req.Expected)
		}
		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return registry.Result{}, ctx.Err()
		}
	}
}
