package tokens

import (
	"encoding/json"
	"slices"
)

// ListID names a remote token list provider.
type ListID string

// String returns the string representation of a list ID.
func (id ListID) String() string {
	return string(id)
}

// Known token list providers.
const (
	AaveList      ListID = "aave"
	CoinGeckoList ListID = "coingecko"
	DharmaList    ListID = "dharma"
	RollList      ListID = "roll"
	SynthetixList ListID = "synthetix"
	WrappedList   ListID = "wrapped"
	UniswapList   ListID = "uniswap"
)

// ListIDs returns every known list provider.
func ListIDs() []ListID {
	return []ListID{
		AaveList,
		CoinGeckoList,
		DharmaList,
		RollList,
		SynthetixList,
		WrappedList,
		UniswapList,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ListID) IsValid() bool {
	return slices.Contains(ListIDs(), id)
}

// List is a fetched token list with a case-insensitive address index.
type List struct {
	ID     ListID
	Tags   json.RawMessage
	Tokens []RawToken

	index map[string]int
}

// NewList builds a list and its address index. When an address repeats,
// the first occurrence wins.
func NewList(id ListID, tags json.RawMessage, toks []RawToken) *List {
	l := &List{
		ID:     id,
		Tags:   tags,
		Tokens: toks,
		index:  make(map[string]int, len(toks)),
	}
	for i, t := range toks {
		key := Key(t.Address)
		if _, exists := l.index[key]; !exists {
			l.index[key] = i
		}
	}
	return l
}

// Lookup returns the token at address, matched case-insensitively.
func (l *List) Lookup(address string) (RawToken, bool) {
	if l == nil {
		return RawToken{}, false
	}
	i, ok := l.index[Key(address)]
	if !ok {
		return RawToken{}, false
	}
	return l.Tokens[i], true
}

// Contains reports whether the list has a token at address.
func (l *List) Contains(address string) bool {
	_, ok := l.Lookup(address)
	return ok
}

// Len returns the number of tokens in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Tokens)
}
