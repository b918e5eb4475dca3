package tracing

import (
	"context"

	"github.com/code19m/errx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rise-and-shine/catalog"

// Start opens a span on the global tracer provider.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		e := errx.AsErrorX(err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.code", e.Code()))
		span.SetStatus(codes.Error, e.Code())
	}
	span.End()
}
