package actions

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func registerVision(reg *registry.Registry) {
	reg.MustRegister(registry.ActionSpec{
		Name:        "verify_screen",
		Category:    "vision",
		Description: "Asks the Visual Verifier whether the current screen matches an expected state. Never halts the run; see handle-verification in the executor.",
		Required: []registry.ParamSpec{
			{Name: "context", Kind: registry.KindString},
			{Name: "expected", Kind: registry.KindString},
		},
		Optional: []registry.ParamSpec{
			{Name: "confidence_threshold", Kind: registry.KindNumber, Default: 0.8},
			{Name: "region", Kind: registry.KindAny},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			v, err := deps.Verifier.Verify(ctx, verifyRequestFrom(params))
			if err != nil {
				return registry.Result{}, err
			}
			return verifyResult(v), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "verify_element",
		Category:    "vision",
		Description: "Asks the Visual Verifier whether a specific UI element is present and in the expected state.",
		Required: []registry.ParamSpec{
			{Name: "context", Kind: registry.KindString},
			{Name: "expected", Kind: registry.KindString},
		},
		Optional: []registry.ParamSpec{
			{Name: "confidence_threshold", Kind: registry.KindNumber, Default: 0.8},
			{Name: "region", Kind: registry.KindAny},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			v, err := deps.Verifier.Verify(ctx, verifyRequestFrom(params))
			if err != nil {
				return registry.Result{}, err
			}
			return verifyResult(v), nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "find_element",
		Category:    "vision",
		Description: "Asks the Visual Verifier to locate an element and report its coordinates.",
		Required: []registry.ParamSpec{
			{Name: "context", Kind: registry.KindString},
			{Name: "expected", Kind: registry.KindString},
		},
		Optional: []registry.ParamSpec{
			{Name: "confidence_threshold", Kind: registry.KindNumber, Default: 0.8},
			{Name: "region", Kind: registry.KindAny},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			v, err := deps.Verifier.Verify(ctx, verifyRequestFrom(params))
			if err != nil {
				return registry.Result{}, err
			}
			result := verifyResult(v)
			if v.UpdatedCoordinates != nil {
				result = result.WithData("x", v.UpdatedCoordinates.X).WithData("y", v.UpdatedCoordinates.Y)
			}
			return result, nil
		},
	})

	reg.MustRegister(registry.ActionSpec{
		Name:        "verify_text",
		Category:    "vision",
		Description: "Asks the Visual Verifier whether expected text is visible on screen.",
		Required: []registry.ParamSpec{
			{Name: "context", Kind: registry.KindString},
			{Name: "expected", Kind: registry.KindString},
		},
		Optional: []registry.ParamSpec{
			{Name: "confidence_threshold", Kind: registry.KindNumber, Default: 0.8},
			{Name: "region", Kind: registry.KindAny},
		},
		Handler: func(ctx context.Context, deps *registry.Dependencies, ectx *execctx.ExecutionContext, params protocol.Params) (registry.Result, error) {
			v, err := deps.Verifier.Verify(ctx, verifyRequestFrom(params))
			if err != nil {
				return registry.Result{}, err
			}
			return verifyResult(v), nil
		},
	})
}

func verifyRequestFrom(params protocol.Params) registry.VerifyRequest {
	threshold := 0.8
	if params.Has("confidence_threshold") {
		threshold = params.Get("confidence_threshold").Float()
	}
	req := registry.VerifyRequest{
		Context:             params.String("context"),
		Expected:            params.String("expected"),
		ConfidenceThreshold: threshold,
	}
	if params.Has("region") {
		r := params.Get("region")
		req.Region = &registry.Region{
			X:      int(r.Get("x").Int()),
			Y:      int(r.Get("y").Int()),
			Width:  int(r.Get("width").Int()),
			Height: int(r.Get("height").Int()),
		}
	}
	return req
}

func verifyResult(v execctx.VerificationResult) registry.Result {
	return registry.Success(v.Analysis).
		WithData("safe_to_proceed", v.SafeToProceed).
		WithData("confidence", v.Confidence).
		WithData("model_used", v.ModelUsed)
}
