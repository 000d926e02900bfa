package validate

import (
	stderrors "errors"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentstation/tokenmap/cmd/application"
	"github.com/agentstation/tokenmap/internal/sources/overrides"
	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// NewOverridesCommand creates the validate overrides subcommand.
func NewOverridesCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "overrides [path]",
		Short: "Validate an override file or every file of a per-chain override directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := constants.DefaultOverridesPath
			if len(args) == 1 {
				path = args[0]
			}
			return emit(cmd, app, checkOverrides(path))
		},
	}
}

// checkOverrides validates a single file, or every chain file of a
// per-chain directory.
func checkOverrides(path string) Report {
	r := Report{File: path}
	sets, err := loadOverrideSets(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	var errs []error
	for _, ovs := range sets {
		r.Entries += len(ovs)
		if err := overrides.Validate(ovs); err != nil {
			errs = append(errs, err)
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		r.Error = err.Error()
		return r
	}
	r.Valid = true
	return r
}

func loadOverrideSets(path string) ([]tokens.Overrides, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		ovs, err := overrides.LoadFile(path, nil)
		if err != nil {
			return nil, err
		}
		return []tokens.Overrides{ovs}, nil
	}
	chains, err := overrides.LoadDir(path)
	if err != nil {
		return nil, err
	}
	sets := make([]tokens.Overrides, 0, len(chains))
	for _, id := range slices.Sorted(maps.Keys(chains)) {
		sets = append(sets, chains[id])
	}
	return sets, nil
}
