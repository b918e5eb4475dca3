package server

import (
	"cmp"
	"slices"

	"github.com/gofiber/fiber/v2"
)

// Middleware is a fiber handler with a position in the chain. Higher
// priorities run first; see the middleware package for the catalog's order.
type Middleware struct {
	Priority int
	Handler  fiber.Handler
}

// applyMiddlewares installs mws by descending priority, skipping nil handlers.
// Equal priorities keep their given order.
func applyMiddlewares(app *fiber.App, mws []Middleware) {
	sorted := slices.Clone(mws)
	slices.SortStableFunc(sorted, func(a, b Middleware) int { return cmp.Compare(b.Priority, a.Priority) })

	for _, mw := range sorted {
		if mw.Handler != nil {
			app.Use(mw.Handler)
		}
	}
}
