package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/catalog/meta"
)

// GetStartingTraceID returns the trace id already bound to ctx, either by meta
// or by the active span. Without one it makes a "man-" prefixed uuid so logs
// still correlate when tracing is disabled.
func GetStartingTraceID(ctx context.Context) string {
	if id := meta.Find(ctx, meta.TraceID); id != "" {
		return id
	}

	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if traceID.IsValid() {
		return traceID.String()
	}

	return "man-" + uuid.NewString()
}
