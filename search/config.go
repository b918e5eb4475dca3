package search

import "github.com/rise-and-shine/catalog/pagination"

// Config bounds the pages a Backend returns.
type Config struct {
	DefaultPageSize   int `yaml:"default_page_size"   default:"1800"    validate:"gte=1"`
	MaxResponseLength int `yaml:"max_response_length" default:"1048576" validate:"gte=1"`
}

func (c Config) options() []pagination.Option {
	return []pagination.Option{
		pagination.WithDefaultPageSize(c.DefaultPageSize),
		pagination.WithMaxResponseLength(c.MaxResponseLength),
	}
}
