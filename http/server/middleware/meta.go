package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/http/server"
	"github.com/rise-and-shine/catalog/meta"
	"github.com/rise-and-shine/catalog/observability/tracing"
)

// NewMetaInjectMW injects request metadata (trace id, client address, user
// agent, language, service info) into the request context.
func NewMetaInjectMW(serviceName, serviceVersion string) server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			ctx := meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{
				meta.TraceID:        tracing.GetStartingTraceID(c.UserContext()),
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.RemoteAddr:     c.Context().RemoteAddr().String(),
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
				meta.AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
				meta.XClientAppName: c.Get(string(meta.XClientAppName)),
			})
			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
