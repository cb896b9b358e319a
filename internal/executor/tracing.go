package executor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this package's spans in exported traces. The
// TracerProvider itself is configured once at process start (cmd/protoctl);
// the executor only needs a Tracer handle, obtained lazily via the global
// otel.Tracer so tests and dry runs work without any provider set up.
const tracerName = "github.com/vireodyne/protoctl/internal/executor"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// startRunSpan opens the parent span for one protocol run.
func startRunSpan(ctx context.Context, protocolID, runID string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "protocol.run", trace.WithAttributes(
		attribute.String("protocol.id", protocolID),
		attribute.String("run.id", runID),
	))
}

// startActionSpan opens a child span for one action dispatch.
func startActionSpan(ctx context.Context, actionName string, index int) (context.Context, trace.Span) {
	return tracer().Start(ctx, "protocol.action", trace.WithAttributes(
		attribute.String("action.name", actionName),
		attribute.Int("action.index", index),
	))
}

// endSpan records err (if any) on span and closes it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
