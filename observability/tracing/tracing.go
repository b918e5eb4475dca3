// Package tracing wires OpenTelemetry for the catalog service: the global
// OTLP exporter and the span helpers used by the query engine stages.
package tracing

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/code19m/errx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rise-and-shine/catalog/meta"
)

const shutdownTimeout = 5 * time.Second

// InitGlobalTracer installs the global tracer provider and returns a
// function that flushes and stops it. With cfg.Disable a no-op provider is
// installed.
func InitGlobalTracer(cfg Config) (func() error, error) {
	if cfg.Disable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(net.JoinHostPort(cfg.ExporterHost, strconv.Itoa(cfg.ExporterPort))),
		otlptracegrpc.WithReconnectionPeriod(reconnectionPeriod),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(batchTimeout),
			sdktrace.WithMaxExportBatchSize(maxExportBatchSize),
		),
		sdktrace.WithResource(newResource(cfg.Tags)),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetTracerProvider(tp)

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tp.ForceFlush(ctx); err != nil {
			return errx.Wrap(err)
		}
		return errx.Wrap(tp.Shutdown(ctx))
	}, nil
}

func newResource(tags map[string]string) *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(meta.GetServiceName()),
		semconv.ServiceVersionKey.String(meta.GetServiceVersion()),
	}
	for k, v := range tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}
