// Package lists implements the lists command.
package lists

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/tokenmap"
	"github.com/agentstation/tokenmap/cmd/application"
	"github.com/agentstation/tokenmap/internal/cmd/output"
)

// Lists is the printable set of configured token lists.
type Lists []tokenmap.ListInfo

// Table implements output.Tabular.
func (l Lists) Table() output.Data {
	rows := make([][]string, 0, len(l))
	for _, info := range l {
		rank := "-"
		if info.Rank > 0 {
			rank = strconv.Itoa(info.Rank)
		}
		rows = append(rows, []string{rank, info.ID.String(), info.Role, info.URL})
	}
	return output.Data{
		Headers:         []string{"Rank", "ID", "Role", "URL"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignRight, output.AlignLeft, output.AlignLeft, output.AlignLeft},
	}
}

// NewCommand creates the lists command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "lists",
		GroupID: "management",
		Short:   "Show configured token lists in priority order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Tokenmap()
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
			return formatter.Format(cmd.OutOrStdout(), Lists(tm.Lists()))
		},
	}
}
