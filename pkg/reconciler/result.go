package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Entry is one reconciled token and how it came to be.
type Entry struct {
	Token tokens.Token

	// Origin is the list that supplied the metadata, or "default".
	Origin string
	// Renamed is set when an override replaced the name or symbol with a
	// different value.
	Renamed bool
	// Synthetic is set for tokens that exist only in the override file.
	Synthetic bool
}

// Changed reports whether the token differs from its upstream record.
func (e Entry) Changed() bool {
	return e.Renamed || e.Synthetic || !e.Token.Finalize().Extensions.IsEmpty()
}

// Result represents the outcome of a reconciliation.
type Result struct {
	// Entries are ordered by checksummed address.
	Entries []Entry

	Stats    ResultStatistics
	Duration time.Duration
}

// Tokens returns the reconciled tokens in entry order.
func (r *Result) Tokens() []tokens.Token {
	out := make([]tokens.Token, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Token
	}
	return out
}

// ResultStatistics contains counts about the reconciliation.
type ResultStatistics struct {
	Total    int
	Curated  int
	Verified int
	Scam     int
	Added    int
	Renamed  int

	// ByOrigin counts tokens by the list that supplied their metadata.
	ByOrigin map[string]int
}

// String returns a human-readable summary.
func (s ResultStatistics) String() string {
	return fmt.Sprintf("%d tokens (%d curated, %d verified, %d scam, %d added)",
		s.Total, s.Curated, s.Verified, s.Scam, s.Added)
}

func (s *ResultStatistics) count(e Entry) {
	s.Total++
	ext := e.Token.Ext()
	if ext.IsRainbowCurated {
		s.Curated++
	}
	if ext.IsVerified {
		s.Verified++
	}
	if ext.IsScam {
		s.Scam++
	}
	if e.Synthetic {
		s.Added++
	}
	if e.Renamed {
		s.Renamed++
	}
	s.ByOrigin[e.Origin]++
}
