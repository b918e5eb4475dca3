package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/catalog/http/server"
)

// NewErrorHandlerMW renders handler errors as JSON error responses. When
// hideDetails is false the trace and details of the error are included.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			// already rendered
			if c.Response().StatusCode() >= 400 {
				return err
			}

			return server.WriteErrorResponse(c, err, hideDetails)
		},
	}
}
