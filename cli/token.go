package cli

import (
	"fmt"
	"time"

	"github.com/code19m/errx"
	"github.com/spf13/cobra"

	"github.com/rise-and-shine/catalog/cfgloader"
	"github.com/rise-and-shine/catalog/token"
)

func newTokenCommand() *cobra.Command {
	var (
		subject   string
		accessStr string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Mint a bearer token carrying an access map",
		Long:    "Signs an access map token with auth.jwt_secret. Intended for local testing.",
		Example: "  catalog token --access mock1=4,mock2=0 --ttl 2h",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, cfgloader.WithSilent())
			if err != nil {
				return err
			}

			am, err := parseAccess(accessStr)
			if err != nil {
				return err
			}

			maker, err := token.NewJWTMaker(cfg.Auth.JWTSecret)
			if err != nil {
				return errx.Wrap(err)
			}

			tok, err := maker.CreateAccessToken(subject, ttl, am)
			if err != nil {
				return errx.Wrap(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return errx.Wrap(err)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&subject, "sub", "local", "token subject")
	flags.StringVar(&accessStr, "access", "", "access map as dataset=tier pairs (required)")
	flags.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("access")

	return cmd
}
