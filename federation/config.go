package federation

import "time"

// Config points the client at a remote catalog service.
type Config struct {
	// BaseURL is the root of the remote HTTP API, e.g. http://catalog:8080.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// Secret signs the per call access tokens; it must match the remote
	// service's auth.jwt_secret.
	Secret string `yaml:"secret" validate:"required,min=16" mask:"true"`

	Attempts int           `yaml:"attempts" default:"3"   validate:"gte=1"`
	Delay    time.Duration `yaml:"delay"    default:"200ms"`
	Timeout  time.Duration `yaml:"timeout"  default:"10s"`
	TokenTTL time.Duration `yaml:"token_ttl" default:"1m"`
}
