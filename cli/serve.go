package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/code19m/errx"
	"github.com/spf13/cobra"

	"github.com/rise-and-shine/catalog/http/router"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/observability/tracing"
	"github.com/rise-and-shine/catalog/search"
	"github.com/rise-and-shine/catalog/store"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog HTTP API",
		Long:  "Loads the catalog from the configured source and serves the search, query and count API.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	shutdownTracer, err := tracing.InitGlobalTracer(cfg.Tracing)
	if err != nil {
		return errx.Wrap(err)
	}
	defer func() {
		if err := shutdownTracer(); err != nil {
			logger.Errorx(err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := store.Open(ctx, cfg.Source)
	if err != nil {
		return errx.Wrap(err)
	}
	backend := search.NewBackend(repo, cfg.Engine.Config)

	resolver, err := newResolver(cfg.Auth)
	if err != nil {
		return errx.Wrap(err)
	}

	srv := router.NewServer(cfg.HTTP, router.Deps{
		Datasets: backend,
		Source:   backend,
		Planner:  newPlanner(backend, cfg.Engine),
	}, router.ServerOptions{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Resolver:       resolver,
		StaticAccess:   cfg.Auth.StaticAccess,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.With("address", cfg.HTTP.Address()).Info("catalog server started")

	select {
	case err = <-errCh:
		return errx.Wrap(err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return errx.Wrap(srv.Stop())
}
