// Package metrics holds the prometheus collectors of the catalog service.
package metrics

import (
	"net/http"

	"github.com/code19m/errx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "catalog"

	outcomeOK = "ok"
)

//nolint:gochecknoglobals // collectors register once with the default registry
var (
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Single endpoint searches by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	SearchRowsScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_rows_scanned_total",
		Help:      "Records evaluated against filters by endpoint.",
	}, []string{"endpoint"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Advanced query latency by mode and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode", "outcome"})

	QueryComponents = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_components",
		Help:      "Number of components per advanced query.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})

	JoinKeys = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_join_keys",
		Help:      "Size of the join key set after logic evaluation.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	FederationCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "federation_calls_total",
		Help:      "Remote catalog calls by operation and outcome.",
	}, []string{"operation", "outcome"})
)

// Outcome labels an operation result by its error code.
func Outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	code := errx.AsErrorX(err).Code()
	if code == "" {
		return "error"
	}
	return code
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
