// Package pg opens PostgreSQL connections for the catalog loader.
//
// Connections go through a pgx pool wrapped by bun, with the query logging
// and OpenTelemetry hooks from the hooks package installed.
package pg

import (
	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rise-and-shine/catalog/pg/hooks"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// NewBunDB creates a bun database backed by a pgx pool.
func NewBunDB(cfg Config) (*bun.DB, error) {
	pool, err := NewPool(cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	hooks.Install(db, cfg.Debug)

	return db, nil
}
