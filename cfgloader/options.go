package cfgloader

import (
	"io"
	"os"
)

type options struct {
	silent bool
	out    io.Writer
}

// Option is a functional option for configuring Load behavior.
type Option func(*options)

// WithSilent disables printing the loaded config.
func WithSilent() Option {
	return func(o *options) { o.silent = true }
}

// WithOutput prints the loaded config to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

func buildOptions(opts []Option) options {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
