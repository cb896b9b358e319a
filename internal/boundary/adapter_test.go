package boundary

import (
	"context"
	"io"
	"testing"

	"github.com/vireodyne/protoctl/internal/app"
	"github.com/vireodyne/protoctl/internal/config"
	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/executor"
	"github.com/vireodyne/protoctl/internal/parser"
	"github.com/vireodyne/protoctl/internal/protocol"
	"github.com/vireodyne/protoctl/internal/registry"
)

func testLogger() *app.Logger {
	return app.NewLogger(app.LoggerConfig{Level: app.LogLevelError, Output: io.Discard})
}

func testAdapter(t *testing.T) *Adapter {
	t.Helper()
	reg := registry.New()
	reg.MustRegister(registry.ActionSpec{
		Name:     "open_app",
		Category: "window",
		Required: []registry.ParamSpec{{Name: "app_name", Kind: registry.KindString}},
		Handler: func(context.Context, *registry.Dependencies, *execctx.ExecutionContext, protocol.Params) (registry.Result, error) {
			return registry.Success("opened"), nil
		},
	})

	p := parser.New(reg, 0, 0)
	e := executor.New(reg, config.ExecutorConfig{}, testLogger())
	return New(p, e, testLogger())
}

func TestSubmitValidProtocolExecutes(t *testing.T) {
	a := testAdapter(t)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"actions":[{"action":"open_app","params":{"app_name":"chrome"},"wait_after_ms":0}]}`)

	report, err := a.Submit(context.Background(), data)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !report.Valid {
		t.Fatalf("report.Valid = false, lint:\n%s", report.Validation.Lint())
	}
	if report.Execution == nil || report.Execution.Status != executor.StatusSuccess {
		t.Fatalf("Execution = %+v, want success", report.Execution)
	}
}

func TestSubmitInvalidProtocolNeverExecutes(t *testing.T) {
	a := testAdapter(t)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"actions":[{"action":"open_app","params":{},"wait_after_ms":0}]}`)

	report, err := a.Submit(context.Background(), data)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if report.Valid {
		t.Fatalf("report.Valid = true, want false for missing required param")
	}
	if report.Execution != nil {
		t.Fatalf("Execution = %+v, want nil for a rejected protocol", report.Execution)
	}
	if len(report.Validation.Errors) == 0 {
		t.Fatalf("expected at least one validation error")
	}
}

func TestValidateDoesNotExecute(t *testing.T) {
	a := testAdapter(t)
	data := []byte(`{"version":"1.0","metadata":{"description":"d"},
"actions":[{"action":"open_app","params":{"app_name":"chrome"},"wait_after_ms":0}]}`)

	result, err := a.Validate(data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("result.IsValid = false, lint:\n%s", result.Lint())
	}
	if status := a.exec.GetExecutionStatus(); status.IsRunning {
		t.Fatalf("Validate triggered a run")
	}
}
