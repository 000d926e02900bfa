package validate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/tokenmap/cmd/application"
	"github.com/agentstation/tokenmap/internal/cmd/emoji"
	"github.com/agentstation/tokenmap/internal/cmd/output"
)

// Report is the printable outcome of validating one file.
type Report struct {
	File    string `json:"file" yaml:"file"`
	Entries int    `json:"entries" yaml:"entries"`
	Valid   bool   `json:"valid" yaml:"valid"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Table implements output.Tabular.
func (r Report) Table() output.Data {
	status := emoji.Success + " valid"
	if !r.Valid {
		status = emoji.Error + " invalid"
	}
	return output.Data{
		Headers:         []string{"File", "Entries", "Status", "Details"},
		Rows:            [][]string{{r.File, strconv.Itoa(r.Entries), status, r.Error}},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignLeft, output.AlignLeft},
	}
}

// emit writes the report and returns an error when the file is invalid
// so the process exits non-zero.
func emit(cmd *cobra.Command, app application.Application, r Report) error {
	formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
	if err := formatter.Format(cmd.OutOrStdout(), r); err != nil {
		return err
	}
	if !r.Valid {
		return fmt.Errorf("%s is invalid", r.File)
	}
	return nil
}
