package output

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Sort orders tokens by symbol using English collation. Ties fall back to
// the ordinal symbol and then the address, so the order is total.
func Sort(toks []tokens.Token) {
	c := collate.New(language.English)
	slices.SortStableFunc(toks, func(a, b tokens.Token) int {
		if r := c.CompareString(a.Symbol, b.Symbol); r != 0 {
			return r
		}
		if r := strings.Compare(a.Symbol, b.Symbol); r != 0 {
			return r
		}
		return strings.Compare(a.Address, b.Address)
	})
}
