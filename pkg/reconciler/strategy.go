package reconciler

import (
	"slices"

	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Priority is a total order of list providers, most trusted first.
// Resolution consults the lists in this order and stops at the first one
// that contains the address. Lists absent from the order are never used
// for resolution.
type Priority []tokens.ListID

// DefaultPriority is the resolution order used unless configured otherwise.
var DefaultPriority = Priority{
	tokens.SynthetixList,
	tokens.AaveList,
	tokens.RollList,
	tokens.DharmaList,
	tokens.WrappedList,
	tokens.CoinGeckoList,
}

// DefaultCatalogList is the broad list folded into the default merge.
const DefaultCatalogList = tokens.CoinGeckoList

// Preferred returns the lists of p whose membership implies verification:
// every list in the order except the catalog list.
func (p Priority) Preferred(catalog tokens.ListID) []tokens.ListID {
	out := make([]tokens.ListID, 0, len(p))
	for _, id := range p {
		if id != catalog {
			out = append(out, id)
		}
	}
	return out
}

// Resolve returns the token at address from the first list in p that
// contains it.
func (p Priority) Resolve(lists map[tokens.ListID]*tokens.List, address string) (tokens.RawToken, tokens.ListID, bool) {
	for _, id := range p {
		if t, ok := lists[id].Lookup(address); ok {
			return t, id, true
		}
	}
	return tokens.RawToken{}, "", false
}

// Contains reports whether id is part of the order.
func (p Priority) Contains(id tokens.ListID) bool {
	return slices.Contains(p, id)
}
