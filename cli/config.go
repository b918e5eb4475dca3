package cli

import (
	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/federation"
	"github.com/rise-and-shine/catalog/http/server"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/observability/tracing"
	"github.com/rise-and-shine/catalog/search"
	"github.com/rise-and-shine/catalog/store"
)

// Config is the catalog service configuration.
type Config struct {
	Service ServiceConfig  `yaml:"service"`
	Logger  logger.Config  `yaml:"logger"`
	Tracing tracing.Config `yaml:"tracing"`
	HTTP    server.Config  `yaml:"http"`
	Engine  EngineConfig   `yaml:"engine"`
	Auth    AuthConfig     `yaml:"auth"`
	Source  store.Config   `yaml:"source"`

	// Federation points `query --remote` at another catalog service.
	Federation *federation.Config `yaml:"federation"`
}

// ServiceConfig names the running service in logs, traces and responses.
type ServiceConfig struct {
	Name    string `yaml:"name"    default:"catalog"`
	Version string `yaml:"version" default:"dev"`
}

// EngineConfig tunes the search backend and the count stage.
type EngineConfig struct {
	search.Config `yaml:",inline"`

	// DPEpsilon enables Laplace noise on counts when positive.
	DPEpsilon float64 `yaml:"dp_epsilon" validate:"gte=0"`
}

// AuthConfig controls how callers obtain an access map.
type AuthConfig struct {
	// JWTSecret verifies bearer tokens. Without it every Authorization
	// header is rejected.
	JWTSecret string `yaml:"jwt_secret" validate:"omitempty,min=16" mask:"true"`

	// StaticAccess applies to requests without an Authorization header.
	StaticAccess access.Map `yaml:"static_access"`
}
