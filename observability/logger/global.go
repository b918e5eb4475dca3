package logger

import (
	"context"
	"sync"
	"sync/atomic"
)

//nolint:gochecknoglobals // global logger singleton
var (
	global   atomic.Value // stores Logger
	setOnce  sync.Once
	initOnce sync.Once
)

// SetGlobal configures the global logger. It must be called once, before any
// logging happens, and panics on a second call.
func SetGlobal(cfg Config) {
	called := false
	setOnce.Do(func() {
		initOnce.Do(func() {})

		l, err := New(cfg)
		if err != nil {
			panic("[logger]: failed to initialize global logger: " + err.Error())
		}
		global.Store(l)
		called = true
	})
	if !called {
		panic("[logger]: SetGlobal can only be called once")
	}
}

// Debug logs a message at debug level using the global logger.
func Debug(msg any) { getGlobal().Debug(msg) }

// Info logs a message at info level using the global logger.
func Info(msg any) { getGlobal().Info(msg) }

// Warn logs a message at warn level using the global logger.
func Warn(msg any) { getGlobal().Warn(msg) }

// Error logs a message at error level using the global logger.
func Error(msg any) { getGlobal().Error(msg) }

// Infof logs a formatted message at info level using the global logger.
func Infof(format string, args ...any) { getGlobal().Infof(format, args...) }

// Errorx logs an errx.ErrorX instance at error level using the global logger.
func Errorx(err error) { getGlobal().Errorx(err) }

// Fatalx logs an errx.ErrorX at fatal level using the global logger and exits.
func Fatalx(err error) { getGlobal().Fatalx(err) }

// With returns a child of the global logger with the key-value pairs attached.
func With(keysAndValues ...any) Logger { return getGlobal().With(keysAndValues...) }

// WithContext returns a child of the global logger enriched with request metadata.
func WithContext(ctx context.Context) Logger { return getGlobal().WithContext(ctx) }

// Named adds a sub-scope to the global logger's name.
func Named(name string) Logger { return getGlobal().Named(name) }

// Sync flushes any buffered log entries from the global logger.
func Sync() error { return getGlobal().Sync() }

func getGlobal() Logger {
	initOnce.Do(func() {
		l, err := New(Config{Level: levelDebug, Encoding: encPretty})
		if err != nil {
			panic("[logger]: failed to initialize default logger: " + err.Error())
		}
		global.Store(l)
	})
	l, ok := global.Load().(Logger)
	if !ok {
		panic("[logger]: global contains invalid type")
	}
	return l
}
