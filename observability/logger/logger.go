package logger

import (
	"context"
	"errors"
	"io"

	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rise-and-shine/catalog/meta"
)

// Logger defines the standard logging interface used across the service.
type Logger interface {
	Debug(msg any)
	Info(msg any)
	Warn(msg any)
	Error(msg any)
	Fatal(msg any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// Warnx logs an errx.ErrorX with its code, type, trace, fields and details at warn level.
	Warnx(err error)
	// Errorx logs an errx.ErrorX with its code, type, trace, fields and details at error level.
	Errorx(err error)
	// Fatalx logs an errx.ErrorX at fatal level and then calls os.Exit(1).
	Fatalx(err error)

	// With returns a child logger that adds the key-value pairs to every entry.
	With(keysAndValues ...any) Logger
	// WithContext returns a child logger enriched with request metadata from ctx.
	WithContext(ctx context.Context) Logger
	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

// Option customizes a logger built by New.
type Option func(*options)

type options struct {
	out io.Writer
}

// WithWriter redirects log output from stdout to w.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

type logger struct {
	*zap.SugaredLogger
}

// New creates a new Logger instance with the provided configuration.
func New(cfg Config, opts ...Option) (Logger, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Disable {
		return &logger{zap.NewNop().Sugar()}, nil
	}

	zapConfig, err := cfg.getZapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Encoding == encPretty {
		return &logger{newPrettyLogger(zapConfig, o.out).Sugar()}, nil
	}

	if o.out != nil {
		core := zapcore.NewCore(zapcore.NewJSONEncoder(zapConfig.EncoderConfig), zapcore.AddSync(o.out), zapConfig.Level)
		return &logger{zap.New(core).Sugar()}, nil
	}

	jsonLogger, err := zapConfig.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &logger{jsonLogger.Sugar()}, nil
}

func (l *logger) withErrx(err error) (*zap.SugaredLogger, string) {
	var e errx.ErrorX
	if errors.As(err, &e) {
		return l.SugaredLogger.With(
			"error_code", e.Code(),
			"error_type", e.Type().String(),
			"error_trace", e.Trace(),
			"error_fields", e.Fields(),
			"error_details", e.Details(),
		), err.Error()
	}
	return l.SugaredLogger, err.Error()
}

func (l *logger) Warnx(err error) {
	s, msg := l.withErrx(err)
	s.Warn(msg)
}

func (l *logger) Errorx(err error) {
	s, msg := l.withErrx(err)
	s.Error(msg)
}

func (l *logger) Fatalx(err error) {
	s, msg := l.withErrx(err)
	s.Fatal(msg)
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	var withFields []any
	for k, v := range meta.ExtractMetaFromContext(ctx) {
		withFields = append(withFields, string(k), v)
	}
	if len(withFields) == 0 {
		return l
	}
	return l.With(withFields...)
}

func (l *logger) Named(name string) Logger {
	return &logger{SugaredLogger: l.SugaredLogger.Named(name)}
}

func (l *logger) Debug(msg any) { l.SugaredLogger.Debug(msg) }
func (l *logger) Info(msg any)  { l.SugaredLogger.Info(msg) }
func (l *logger) Warn(msg any)  { l.SugaredLogger.Warn(msg) }
func (l *logger) Error(msg any) { l.SugaredLogger.Error(msg) }
func (l *logger) Fatal(msg any) { l.SugaredLogger.Fatal(msg) }
