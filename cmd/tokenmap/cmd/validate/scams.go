package validate

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/tokenmap/cmd/application"
	"github.com/agentstation/tokenmap/internal/sources/scams"
	"github.com/agentstation/tokenmap/pkg/constants"
)

// NewScamsCommand creates the validate scams subcommand.
func NewScamsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "scams [path]",
		Short: "Validate a scam flag file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := constants.DefaultScamsPath
			if len(args) == 1 {
				path = args[0]
			}
			return emit(cmd, app, checkScams(path))
		},
	}
}

func checkScams(path string) Report {
	r := Report{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	entries, err := scams.Parse(data)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Entries = len(entries)
	r.Valid = true
	return r
}
