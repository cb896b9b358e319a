package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func testLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(LoggerConfig{Level: LogLevelDebug, Output: buf, Prefix: "protoctl"})
}

func TestApplication_StartLogsStart(t *testing.T) {
	var buf bytes.Buffer
	application := New(Config{Logger: testLogger(&buf)})

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !application.IsRunning() {
		t.Error("expected IsRunning() = true after Start")
	}
	if !strings.Contains(buf.String(), "application started") {
		t.Errorf("expected start log line, got %q", buf.String())
	}
}

func TestApplication_StartTwiceFails(t *testing.T) {
	application := New(Config{Logger: NullLogger})
	if err := application.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := application.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestApplication_RegisterCloserLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	application := New(Config{Logger: testLogger(&buf)})
	application.RegisterCloser(func(context.Context) error { return nil })

	if !strings.Contains(buf.String(), "registered shutdown closer") {
		t.Errorf("expected closer registration log line, got %q", buf.String())
	}
}

func TestApplication_ShutdownRunsClosersInReverseOrder(t *testing.T) {
	application := New(Config{Logger: NullLogger})
	if err := application.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var order []int
	application.RegisterCloser(func(context.Context) error {
		order = append(order, 1)
		return nil
	})
	application.RegisterCloser(func(context.Context) error {
		order = append(order, 2)
		return nil
	})

	if err := application.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("expected closers to run in LIFO order, got %v", order)
	}
	if application.IsRunning() {
		t.Error("expected IsRunning() = false after Shutdown")
	}
}

func TestApplication_ShutdownLogsCloserErrors(t *testing.T) {
	var buf bytes.Buffer
	application := New(Config{Logger: testLogger(&buf)})
	if err := application.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	failure := errors.New("vision backend connection refused")
	application.RegisterCloser(func(context.Context) error { return failure })

	err := application.Shutdown(context.Background())
	if err == nil {
		t.Fatal("expected Shutdown() to return an error when a closer fails")
	}
	if !strings.Contains(buf.String(), "vision backend connection refused") {
		t.Errorf("expected closer error to be logged, got %q", buf.String())
	}
}

func TestApplication_ShutdownWithoutStartFails(t *testing.T) {
	application := New(Config{Logger: NullLogger})
	if err := application.Shutdown(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestApplication_ShutdownTimeout(t *testing.T) {
	application := New(Config{Logger: NullLogger, ShutdownTimeout: 10 * time.Millisecond})
	if err := application.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	application.RegisterCloser(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := application.Shutdown(context.Background()); !errors.Is(err, ErrShutdownTimeout) {
		t.Errorf("expected ErrShutdownTimeout, got %v", err)
	}
}

func TestApplication_SetAppLoggerNilFallsBackToGetLogger(t *testing.T) {
	application := New(Config{})
	application.SetAppLogger(nil)
	if application.Logger() != GetLogger() {
		t.Error("expected nil SetAppLogger to fall back to GetLogger()")
	}
}
