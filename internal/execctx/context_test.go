package execctx

import "testing"

func TestApplyVerificationSetsCoordinateVars(t *testing.T) {
	ctx := New("proto-1")
	ctx.ApplyVerification(VerificationResult{
		SafeToProceed:      true,
		Confidence:         0.92,
		Analysis:           "button visible",
		UpdatedCoordinates: &Coordinates{X: 100, Y: 200},
		ModelUsed:          "claude-sonnet-4-5",
	})

	if v, ok := ctx.GetVariable(VarVerifiedX); !ok || v != "100" {
		t.Errorf("verified_x = %q (%v), want 100", v, ok)
	}
	if v, ok := ctx.GetVariable(VarVerifiedY); !ok || v != "200" {
		t.Errorf("verified_y = %q (%v), want 200", v, ok)
	}
	if v, _ := ctx.GetVariable(VarLastVerificationSafe); v != "true" {
		t.Errorf("last_verification_safe = %q, want true", v)
	}
}

func TestResolverWithOverridesPrefersCallSiteVars(t *testing.T) {
	ctx := New("proto-1")
	ctx.SetVariable("q", "from-context")

	resolve := ctx.ResolverWithOverrides(map[string]string{"q": "from-call-site"})
	val, ok := resolve("q")
	if !ok || val != "from-call-site" {
		t.Errorf("resolve(q) = %q (%v), want from-call-site per call-site precedence", val, ok)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	ctx := New("proto-1")
	ctx.SetVariable("a", "1")
	snap := ctx.Snapshot()

	ctx.SetVariable("a", "2")
	if snap.Variables["a"] != "1" {
		t.Errorf("snapshot was mutated by later context write")
	}
}
