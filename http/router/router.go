// Package router mounts the catalog use cases on a Fiber router.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/rise-and-shine/catalog/http/server/forward"
	"github.com/rise-and-shine/catalog/observability/metrics"
	"github.com/rise-and-shine/catalog/query"
	"github.com/rise-and-shine/catalog/usecase"
)

// Deps are the collaborators behind the routes.
type Deps struct {
	Datasets usecase.DatasetLister
	Source   query.Source
	Planner  *query.Planner
}

// Register mounts every route on r. Fixed paths are registered before the
// :endpoint patterns so they take precedence.
func Register(d Deps) func(r fiber.Router) {
	return func(r fiber.Router) {
		r.Get("/healthz", healthz)
		r.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

		r.Post("/datasets/search", forward.ToUserAction(usecase.NewSearchDatasets(d.Datasets)))
		r.Get("/datasets/:id", forward.ToUserAction(usecase.NewGetDataset(d.Datasets)))

		r.Post("/search", forward.ToUserAction(usecase.NewAdvancedQuery(d.Planner)))
		r.Post("/count", forward.ToUserAction(usecase.NewCountQuery(d.Planner)))

		r.Post("/:endpoint/search", forward.ToUserAction(usecase.NewSearchEndpoint(d.Source)))
		r.Get("/:endpoint/:id", forward.ToUserAction(usecase.NewGetEntity(d.Source)))
	}
}

func healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
