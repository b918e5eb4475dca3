package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/http/server"
)

// NewTimeoutMW bounds the request context by duration. Federated component
// calls observe it.
func NewTimeoutMW(duration time.Duration) server.Middleware {
	return server.Middleware{
		Priority: 800,
		Handler: func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), duration)
			defer cancel()

			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
