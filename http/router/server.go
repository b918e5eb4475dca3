package router

import (
	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/http/server"
	"github.com/rise-and-shine/catalog/http/server/middleware"
	"github.com/rise-and-shine/catalog/observability/logger"
)

// ServerOptions configure the middleware chain of NewServer.
type ServerOptions struct {
	ServiceName    string
	ServiceVersion string

	// Resolver verifies bearer tokens. Nil rejects every Authorization header.
	Resolver middleware.AccessResolver
	// StaticAccess applies to requests without an Authorization header.
	StaticAccess access.Map
}

// NewServer builds the catalog HTTP server with the full middleware chain
// and every route registered.
func NewServer(cfg server.Config, d Deps, o ServerOptions) *server.HTTPServer {
	log := logger.Named("http")

	srv := server.NewHTTPServer(cfg, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HandleTimeout),
		middleware.NewMetaInjectMW(o.ServiceName, o.ServiceVersion),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(cfg.HideErrorDetails),
		middleware.NewAuthMW(o.Resolver, o.StaticAccess),
	})
	srv.RegisterRouter(Register(d))
	return srv
}
