package server

import (
	"net"
	"strconv"
	"time"
)

// Config configures the HTTP listener and per request limits.
type Config struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required,gte=1,lte=65535"`

	// HideErrorDetails drops trace and details from error bodies.
	HideErrorDetails bool `yaml:"hide_error_details"`

	ReadTimeout  time.Duration `yaml:"read_timeout"  default:"5s"   validate:"required"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"  validate:"required"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  default:"120s" validate:"required"`

	// HandleTimeout bounds a single request, component fan-out included.
	HandleTimeout time.Duration `yaml:"request_timeout" default:"30s" validate:"required"`

	// BodyLimit caps request bodies; advanced queries are small.
	BodyLimit int `yaml:"body_limit" default:"1048576" validate:"required"`
}

// Address returns host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
