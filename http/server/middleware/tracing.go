package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/catalog/http/server"
	"github.com/rise-and-shine/catalog/meta"
	"github.com/rise-and-shine/catalog/observability/tracing"
)

const headerTraceID = "X-Trace-ID"

// NewTracingMW starts a server span per request, named after the matched
// route, and echoes the trace id in the X-Trace-ID header.
func NewTracingMW() server.Middleware {
	return server.Middleware{
		Priority: 900,
		Handler: func(c *fiber.Ctx) error {
			ctx, span := otel.Tracer("http-server").Start(
				c.UserContext(),
				fmt.Sprintf("%s %s", c.Method(), "/"),
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			traceID := tracing.GetStartingTraceID(ctx)
			c.SetUserContext(meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{meta.TraceID: traceID}))
			c.Set(headerTraceID, traceID)

			err := c.Next()

			routePattern := c.Route().Path
			if routePattern != "" && routePattern != "/" {
				span.SetName(fmt.Sprintf("%s %s", c.Method(), routePattern))
			}

			span.SetAttributes(
				semconv.HTTPMethodKey.String(c.Method()),
				semconv.HTTPRouteKey.String(routePattern),
				semconv.HTTPURLKey.String(c.OriginalURL()),
				semconv.HTTPStatusCodeKey.Int(c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}
