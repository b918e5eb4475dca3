// Package hooks holds bun query hooks shared by the SQL loaders.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/extra/bunotel"
)

var _ bun.QueryHook = (*DebugHook)(nil)

// Install adds the query logging hook and the OpenTelemetry hook to db.
// Successful queries are only logged when debug is set.
func Install(db *bun.DB, debug bool) {
	db.AddQueryHook(NewDebugHook(WithVerbose(debug)))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(db.Dialect().Name().String())))
}

// DebugHook logs bun queries. Failures and slow queries are always logged.
type DebugHook struct {
	verbose            bool
	slowQueryThreshold time.Duration
}

// DebugHookOption configures a DebugHook.
type DebugHookOption func(*DebugHook)

// NewDebugHook returns a hook with a 100ms slow query threshold.
func NewDebugHook(opts ...DebugHookOption) *DebugHook {
	h := &DebugHook{slowQueryThreshold: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithVerbose logs every query at debug level.
func WithVerbose(verbose bool) DebugHookOption {
	return func(h *DebugHook) { h.verbose = verbose }
}

// WithSlowQueryThreshold sets the warn threshold. Zero disables it.
func WithSlowQueryThreshold(threshold time.Duration) DebugHookOption {
	return func(h *DebugHook) { h.slowQueryThreshold = threshold }
}

func (h *DebugHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *DebugHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	noRows := errors.Is(event.Err, sql.ErrNoRows)
	failed := event.Err != nil && !noRows && !errors.Is(event.Err, sql.ErrTxDone)
	slow := h.slowQueryThreshold > 0 && duration >= h.slowQueryThreshold

	if !h.verbose && !failed && !slow {
		return
	}

	log := logger.Named("store.sql").
		WithContext(ctx).
		With("query", strings.ReplaceAll(event.Query, `"`, ""), "duration", duration.Round(time.Microsecond))

	msg := "sql " + event.Operation()
	switch {
	case failed:
		log.With("error", event.Err.Error()).Error(msg)
	case slow:
		log.Warn(msg)
	default:
		log.Debug(msg)
	}
}
