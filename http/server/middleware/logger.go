package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/http/server"
	"github.com/rise-and-shine/catalog/observability/logger"
)

// NewLoggerMW logs every request with its route, status and duration. The
// level follows the status code: info for 2xx/3xx, warn for 4xx, error for 5xx.
func NewLoggerMW(log logger.Logger) server.Middleware {
	log = log.Named("middleware.logger")

	return server.Middleware{
		Priority: 500,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()

			err := c.Next()

			statusCode := c.Response().StatusCode()
			ctx := c.UserContext()

			l := log.WithContext(ctx).With(
				"http_status_code", statusCode,
				"http_method", c.Method(),
				"http_path", c.Path(),
				"http_route", c.Route().Path,
				"duration", time.Since(start),
				"request_size", len(c.Body()),
				"response_size", len(c.Response().Body()),
				"datasets", access.FromContext(ctx).Datasets(),
			)

			if err != nil {
				e := errx.AsErrorX(err)
				l = l.With("error", map[string]any{
					"code":    e.Code(),
					"message": e.Error(),
					"type":    e.Type().String(),
					"trace":   e.Trace(),
					"fields":  e.Fields(),
					"details": e.Details(),
				})
			}

			switch {
			case statusCode >= 500:
				l.Error("request failed")
			case statusCode >= 400:
				l.Warn("request rejected")
			default:
				l.Info("request processed successfully")
			}

			return err
		},
	}
}
