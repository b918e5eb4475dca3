// Package cli implements the catalog command line: the HTTP server, ad hoc
// queries, snapshot management and token minting.
package cli

import (
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/code19m/errx"
	"github.com/spf13/cobra"

	"github.com/rise-and-shine/catalog/cfgloader"
	"github.com/rise-and-shine/catalog/http/server/middleware"
	"github.com/rise-and-shine/catalog/meta"
	"github.com/rise-and-shine/catalog/observability/logger"
	"github.com/rise-and-shine/catalog/query"
	"github.com/rise-and-shine/catalog/result"
	"github.com/rise-and-shine/catalog/token"
)

const configFlag = "config"

//nolint:gochecknoglobals // the global logger can be set once per process
var setupOnce sync.Once

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		logger.Errorx(err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Metadata catalog query service",
		Long:          "Serves and queries a clinical and genomic metadata catalog with tiered, per-dataset access.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String(configFlag, "", "config file (default ./config/${ENVIRONMENT}.yaml)")

	root.AddCommand(
		newServeCommand(),
		newQueryCommand(),
		newSnapshotCommand(),
		newTokenCommand(),
	)
	return root
}

// loadConfig reads the --config file, or the environment's config file when
// the flag is unset, and sets up the process wide logger and service info.
func loadConfig(cmd *cobra.Command, opts ...cfgloader.Option) (Config, error) {
	var (
		cfg Config
		err error
	)

	path, _ := cmd.Flags().GetString(configFlag)
	if path == "" {
		cfg = cfgloader.MustLoad[Config](opts...)
	} else if cfg, err = cfgloader.Load[Config](path, opts...); err != nil {
		return cfg, errx.Wrap(err)
	}

	setupOnce.Do(func() {
		logger.SetGlobal(cfg.Logger)
		meta.SetServiceInfo(cfg.Service.Name, cfg.Service.Version)
	})
	return cfg, nil
}

func newResolver(cfg AuthConfig) (middleware.AccessResolver, error) {
	if cfg.JWTSecret == "" {
		return nil, nil //nolint:nilnil // no secret means no bearer tokens
	}

	maker, err := token.NewJWTMaker(cfg.JWTSecret)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return maker, nil
}

func newPlanner(src query.Source, cfg EngineConfig) *query.Planner {
	//nolint:gosec // noise for counts, not key material
	noiser := result.NewLaplaceNoiser(cfg.DPEpsilon, rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	return query.NewPlanner(src, noiser)
}
