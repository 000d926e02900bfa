// Package validate implements the validate command and its subcommands.
package validate

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/tokenmap/cmd/application"
)

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "management",
		Short:   "Validate manually maintained input files",
		Long: `Validate the override and scam files without running a build.

Overrides are checked for unparseable addresses, duplicate keys after
checksumming, blank names or symbols and malformed colors.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewOverridesCommand(app))
	cmd.AddCommand(NewScamsCommand(app))

	return cmd
}
