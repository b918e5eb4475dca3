package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a pgx pool for cfg.
func NewPool(cfg Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"host": cfg.Host, "database": cfg.Database}))
	}

	pc.MaxConns = cfg.PoolMaxConns
	pc.MaxConnLifetime = cfg.PoolMaxConnLifetime
	pc.MaxConnIdleTime = cfg.PoolMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), pc)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"host": cfg.Host, "database": cfg.Database}))
	}
	return pool, nil
}
