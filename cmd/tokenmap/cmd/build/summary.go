package build

import (
	"maps"
	"slices"
	"strconv"

	"github.com/agentstation/tokenmap"
	"github.com/agentstation/tokenmap/internal/cmd/output"
)

// Summary is the printable outcome of a build.
type Summary struct {
	Tokens   int            `json:"tokens" yaml:"tokens"`
	Curated  int            `json:"curated" yaml:"curated"`
	Verified int            `json:"verified" yaml:"verified"`
	Scam     int            `json:"scam" yaml:"scam"`
	Added    int            `json:"added" yaml:"added"`
	Renamed  int            `json:"renamed" yaml:"renamed"`
	Lean     int            `json:"lean" yaml:"lean"`
	ByOrigin map[string]int `json:"byOrigin" yaml:"byOrigin"`
	Written  bool           `json:"written" yaml:"written"`
	FullPath string         `json:"fullPath,omitempty" yaml:"fullPath,omitempty"`
	LeanPath string         `json:"leanPath,omitempty" yaml:"leanPath,omitempty"`
	Duration string         `json:"duration" yaml:"duration"`
}

// NewSummary summarizes a build result.
func NewSummary(res *tokenmap.Result) Summary {
	s := Summary{
		Tokens:   res.Stats.Total,
		Curated:  res.Stats.Curated,
		Verified: res.Stats.Verified,
		Scam:     res.Stats.Scam,
		Added:    res.Stats.Added,
		Renamed:  res.Stats.Renamed,
		Lean:     len(res.Artifacts.Lean.Tokens),
		ByOrigin: res.Stats.ByOrigin,
		Written:  res.Written,
		Duration: res.Duration.String(),
	}
	if res.Written {
		s.FullPath, s.LeanPath = res.FullPath, res.LeanPath
	}
	return s
}

// Table implements output.Tabular.
func (s Summary) Table() output.Data {
	rows := [][]string{
		{"tokens", strconv.Itoa(s.Tokens)},
		{"curated", strconv.Itoa(s.Curated)},
		{"verified", strconv.Itoa(s.Verified)},
		{"scam", strconv.Itoa(s.Scam)},
		{"added", strconv.Itoa(s.Added)},
		{"renamed", strconv.Itoa(s.Renamed)},
		{"lean", strconv.Itoa(s.Lean)},
	}
	for _, origin := range slices.Sorted(maps.Keys(s.ByOrigin)) {
		rows = append(rows, []string{"origin " + origin, strconv.Itoa(s.ByOrigin[origin])})
	}
	if s.Written {
		rows = append(rows, []string{"full list", s.FullPath}, []string{"lean list", s.LeanPath})
	} else {
		rows = append(rows, []string{"written", "no (dry run)"})
	}
	return output.Data{
		Headers:         []string{"Metric", "Value"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight},
	}
}
