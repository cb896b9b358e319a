package parser

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.MustRegister(registry.ActionSpec{
		Name:     "open_app",
		Category: "window",
		Handler: func(context.Context, *registry.Dependencies, *execctx.ExecutionContext, protocol.Params) (registry.Result, error) {
			return registry.Success("opened"), nil
		},
		Required: []registry.ParamSpec{{Name: "app_name", Kind: registry.KindString}},
	})
	reg.MustRegister(registry.ActionSpec{
		Name:     "mouse_move",
		Category: "mouse",
		Handler: func(context.Context, *registry.Dependencies, *execctx.ExecutionContext, protocol.Params) (registry.Result, error) {
			return registry.Success("moved"), nil
		},
		Required: []registry.ParamSpec{
			{Name: "x", Kind: registry.KindInt},
			{Name: "y", Kind: registry.KindInt},
		},
	})
	reg.MustRegister(registry.ActionSpec{
		Name:     "shortcut",
		Category: "keyboard",
		Handler: func(context.Context, *registry.Dependencies, *execctx.ExecutionContext, protocol.Params) (registry.Result, error) {
			return registry.Success("shortcut"), nil
		},
		Required: []registry.ParamSpec{{Name: "keys", Kind: registry.KindList}},
	})
	reg.MustRegister(registry.ActionSpec{
		Name:     "type",
		Category: "keyboard",
		Handler: func(context.Context, *registry.Dependencies, *execctx.ExecutionContext, protocol.Params) (registry.Result, error) {
			return registry.Success("typed"), nil
		},
		Required: []registry.ParamSpec{{Name: "text", Kind: registry.KindString}},
	})
	reg.MustRegister(registry.ActionSpec{
		Name:     "press_key",
		Category: "keyboard",
		Handler: func(context.Context, *registry.Dependencies, *execctx.ExecutionContext, protocol.Params) (registry.Result, error) {
			return registry.Success("pressed"), nil
		},
		Required: []registry.ParamSpec{{Name: "key", Kind: registry.KindString}},
	})
	return reg
}

// S1 — single open_app, success.
func TestParseOpenAppSuccess(t *testing.T) {
	p := New(testRegistry(t), 0, 0)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"actions":[{"action":"open_app","params":{"app_name":"chrome"},"wait_after_ms":0}]}`)

	proto, result, err := p.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, result.Lint())
	}
	if !result.IsValid {
		t.Fatalf("expected valid, got:\n%s", result.Lint())
	}
	if len(proto.Actions) != 1 || proto.Actions[0].Name != "open_app" {
		t.Fatalf("unexpected actions: %+v", proto.Actions)
	}
}

// S2 — missing required param, never executed.
func TestParseMissingRequiredParam(t *testing.T) {
	p := New(testRegistry(t), 0, 0)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"actions":[{"action":"open_app","params":{},"wait_after_ms":0}]}`)

	proto, result, err := p.Parse(data)
	if err == nil {
		t.Fatal("expected ErrValidationFailed")
	}
	if proto != nil {
		t.Fatal("expected nil protocol on validation failure")
	}
	if result.IsValid {
		t.Fatal("expected invalid result")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "missing required param") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-required-param error, got: %v", result.Errors)
	}
}

// S5 — cyclic macros a -> b -> a.
func TestParseCyclicMacrosRejected(t *testing.T) {
	p := New(testRegistry(t), 0, 0)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"macros":{
  "a":{"actions":[{"action":"macro","params":{"name":"b"}}]},
  "b":{"actions":[{"action":"macro","params":{"name":"a"}}]}
},
"actions":[{"action":"macro","params":{"name":"a"}}]}`)

	_, result, err := p.Parse(data)
	if err == nil {
		t.Fatal("expected ErrValidationFailed")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "cyclic macro reference") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cyclic macro error, got: %v", result.Errors)
	}
}

func TestParseUnknownTopLevelKeyWarns(t *testing.T) {
	p := New(testRegistry(t), 0, 0)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"actions":[{"action":"open_app","params":{"app_name":"chrome"}}],"author":"me"}`)

	_, result, err := p.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, result.Lint())
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, `unknown top-level key "author"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown top-level key warning, got: %v", result.Warnings)
	}
}

func TestParseUnknownParamWarnsNotErrors(t *testing.T) {
	p := New(testRegistry(t), 0, 0)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"actions":[{"action":"open_app","params":{"app_name":"chrome","bogus":"x"}}]}`)

	_, result, err := p.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, result.Lint())
	}
	if !result.IsValid {
		t.Fatalf("unknown param should warn, not invalidate: %v", result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, `unknown param "bogus"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown param warning, got: %v", result.Warnings)
	}
}

func TestParseMacroVariableHygiene(t *testing.T) {
	p := New(testRegistry(t), 0, 0)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"macros":{
  "search":{"actions":[
    {"action":"shortcut","params":{"keys":["ctrl","l"]}},
    {"action":"type","params":{"text":"{{q}}"}},
    {"action":"press_key","params":{"key":"enter"}}
  ]}
},
"actions":[{"action":"macro","params":{"name":"search"}}]}`)

	_, result, err := p.Parse(data)
	if err == nil {
		t.Fatal("expected validation failure: {{q}} is unbound at the only call site")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "{{q}}") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unbound-token error mentioning {{q}}, got: %v", result.Errors)
	}
}

func TestParseRoundTripIdempotent(t *testing.T) {
	reg := testRegistry(t)
	p := New(reg, 0, 0)
	data := []byte(`{"version":"1.0","metadata":{"description":"d","complexity":"simple","uses_vision":false,"estimated_duration_seconds":0},
"actions":[{"action":"open_app","params":{"app_name":"chrome"},"wait_after_ms":0}]}`)

	proto, result, err := p.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, result.Lint())
	}

	reencoded, err := json.Marshal(proto)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	proto2, result2, err := p.Parse(reencoded)
	if err != nil {
		t.Fatalf("second Parse: %v\n%s", err, result2.Lint())
	}
	if len(proto.Actions) != len(proto2.Actions) || proto.Actions[0].Name != proto2.Actions[0].Name {
		t.Fatalf("round trip changed actions: %+v vs %+v", proto.Actions, proto2.Actions)
	}
}
