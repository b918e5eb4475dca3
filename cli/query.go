package cli

import (
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/code19m/errx"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/cfgloader"
	"github.com/rise-and-shine/catalog/federation"
	"github.com/rise-and-shine/catalog/pagination"
	"github.com/rise-and-shine/catalog/query"
	"github.com/rise-and-shine/catalog/result"
	"github.com/rise-and-shine/catalog/search"
	"github.com/rise-and-shine/catalog/store"
	"github.com/rise-and-shine/catalog/usecase"
)

const codeFederationDisabled = "FEDERATION_NOT_CONFIGURED"

type queryOptions struct {
	file   string
	access string
	remote bool
	count  bool
}

func newQueryCommand() *cobra.Command {
	var o queryOptions

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run an advanced query",
		Long: `Runs an advanced query document against the configured catalog source, or
against a remote catalog service with --remote, and prints the answer.`,
		Example: `  catalog query --file query.json --access mock1=4
  cat query.json | catalog query --file - --count`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.file, "file", "f", "", "query document, - reads stdin (required)")
	flags.StringVar(&o.access, "access", "", "access map as dataset=tier pairs (default auth.static_access)")
	flags.BoolVar(&o.remote, "remote", false, "send component searches to the federation base_url")
	flags.BoolVar(&o.count, "count", false, "count results field values instead of listing rows")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runQuery(cmd *cobra.Command, o queryOptions) error {
	cfg, err := loadConfig(cmd, cfgloader.WithSilent())
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), o.file)
	if err != nil {
		return err
	}

	req, err := query.Parse(data)
	if err != nil {
		return errx.Wrap(err)
	}

	am, err := parseAccess(o.access)
	if err != nil {
		return err
	}
	if am == nil {
		am = cfg.Auth.StaticAccess
	}

	src, err := querySource(cmd, cfg, o.remote)
	if err != nil {
		return err
	}

	planner := newPlanner(src, cfg.Engine)
	ctx := access.WithMap(cmd.Context(), am)
	out := cmd.OutOrStdout()

	if o.count {
		page, err := usecase.NewCountQuery(planner).Execute(ctx, req)
		if err != nil {
			return errx.Wrap(err)
		}
		printCounts(out, page)
		return nil
	}

	page, err := usecase.NewAdvancedQuery(planner).Execute(ctx, req)
	if err != nil {
		return errx.Wrap(err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return errx.Wrap(enc.Encode(page))
}

func querySource(cmd *cobra.Command, cfg Config, remote bool) (query.Source, error) {
	if !remote {
		repo, err := store.Open(cmd.Context(), cfg.Source)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return search.NewBackend(repo, cfg.Engine.Config), nil
	}

	if cfg.Federation == nil {
		return nil, errx.New(
			"--remote needs a federation section in the config",
			errx.WithCode(codeFederationDisabled),
			errx.WithType(errx.T_Validation),
		)
	}

	client, err := federation.NewClient(*cfg.Federation)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return client, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"file": path}))
	}
	return data, nil
}

// printCounts renders one block per results field, values sorted.
func printCounts(w io.Writer, page *pagination.Page[result.Counts]) {
	header := color.New(color.Bold, color.FgCyan)

	for _, counts := range page.Items {
		fields := lo.Keys(counts)
		slices.Sort(fields)

		for _, field := range fields {
			_, _ = header.Fprintln(w, field)

			buckets := counts[field]
			values := lo.Keys(buckets)
			slices.Sort(values)
			for _, v := range values {
				_, _ = color.New(color.FgWhite).Fprintf(w, "  %-30s %d\n", v, buckets[v])
			}
		}
	}

	if page.NextPageToken != "" {
		_, _ = color.New(color.Faint).Fprintf(w, "next page token: %s\n", page.NextPageToken)
	}
}
