package pagination

const (
	defaultPageSize          = 1800
	defaultMaxResponseLength = 1 << 20 // 1MiB
)

// Options configures the response builder.
type Options struct {
	DefaultPageSize   int
	MaxResponseLength int
}

type Option func(*Options)

// WithDefaultPageSize sets the page size used when a request carries none.
func WithDefaultPageSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.DefaultPageSize = size
		}
	}
}

// WithMaxResponseLength caps the serialized size of a page.
func WithMaxResponseLength(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxResponseLength = n
		}
	}
}

func defaultOptions() Options {
	return Options{
		DefaultPageSize:   defaultPageSize,
		MaxResponseLength: defaultMaxResponseLength,
	}
}
