// Package build implements the build command.
package build

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/tokenmap"
	"github.com/agentstation/tokenmap/cmd/application"
	"github.com/agentstation/tokenmap/internal/cmd/output"
	"github.com/agentstation/tokenmap/pkg/tokens"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

// Flags holds the build command flags.
type Flags struct {
	Dry             bool
	Lean            bool
	Policy          string
	LenientDecimals bool
	OutputDir       string
	Overrides       string
	Scams           string
	MetricsFile     string
	Watch           bool
}

// NewCommand creates the build command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "build",
		GroupID: "core",
		Short:   "Fetch every source and write the token list",
		Long: `Build fetches every source, reconciles them and writes the full and lean
token lists to the output directory. Any source failure aborts the build
and leaves existing output untouched.`,
		Example: `  tokenmap build                      # build and write output/
  tokenmap build --dry                # reconcile and report only
  tokenmap build --policy membership  # skip market data
  tokenmap build --watch              # rebuild every watch interval`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			tm, err := app.Tokenmap(opts...)
			if err != nil {
				return err
			}

			if flags.Watch {
				logChanges(app, tm)
				return tm.Watch(cmd.Context())
			}

			res, err := tm.Build(cmd.Context())
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
			return formatter.Format(cmd.OutOrStdout(), NewSummary(res))
		},
	}

	cmd.Flags().BoolVar(&flags.Dry, "dry", false, "reconcile without writing artifacts")
	cmd.Flags().BoolVar(&flags.Lean, "lean", true, "also write the lean token list")
	cmd.Flags().StringVar(&flags.Policy, "policy", "", "verification policy: marketcap, membership")
	cmd.Flags().BoolVar(&flags.LenientDecimals, "lenient-decimals", false, "default synthetic tokens without decimals to 18")
	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", "", "artifact directory")
	cmd.Flags().StringVar(&flags.Overrides, "overrides", "", "override file or per-chain directory")
	cmd.Flags().StringVar(&flags.Scams, "scams", "", "scam flag file")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "write build metrics to this file")
	cmd.Flags().BoolVar(&flags.Watch, "watch", false, "rebuild on the configured watch interval until interrupted")

	return cmd
}

// options converts flags into client options. Unset flags keep the
// configured values.
func (f *Flags) options() ([]tokenmap.Option, error) {
	opts := []tokenmap.Option{
		tokenmap.WithDryRun(f.Dry),
		tokenmap.WithLean(f.Lean),
		tokenmap.WithOutputDir(f.OutputDir),
		tokenmap.WithOverridesPath(f.Overrides),
		tokenmap.WithScamsPath(f.Scams),
	}
	if f.Policy != "" {
		p, err := verifier.ParsePolicy(f.Policy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tokenmap.WithPolicy(p))
	}
	if f.LenientDecimals {
		opts = append(opts, tokenmap.WithStrictDecimals(false))
	}
	if f.MetricsFile != "" {
		opts = append(opts, tokenmap.WithMetricsFile(f.MetricsFile))
	}
	return opts, nil
}

func logChanges(app application.Application, tm tokenmap.Client) {
	logger := app.Logger()
	tm.OnTokenAdded(func(tok tokens.Token) {
		logger.Info().Str("address", tok.Address).Str("symbol", tok.Symbol).Msg("Token added")
	})
	tm.OnTokenUpdated(func(_, tok tokens.Token) {
		logger.Info().Str("address", tok.Address).Str("symbol", tok.Symbol).Msg("Token updated")
	})
	tm.OnTokenRemoved(func(tok tokens.Token) {
		logger.Info().Str("address", tok.Address).Str("symbol", tok.Symbol).Msg("Token removed")
	})
}
