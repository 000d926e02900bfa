// Package sources defines the contract shared by every token data source
// and runs them concurrently.
//
// A source fetches and normalizes its own data into private state. Sources
// never share mutable state, so they can run in parallel without locking;
// FetchAll is the join-all barrier between fetching and reconciliation.
//
// Example usage:
//
//	srcs := sources.NewSources()
//	srcs.Set(contractMap)
//	srcs.Set(tokenLists)
//
//	if err := sources.FetchAll(ctx, srcs.List()); err != nil {
//	    return err // no partial output
//	}
package sources

import (
	"context"
	"slices"
	"sync"
)

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Common source names.
const (
	ContractMapID   ID = "contract_map"
	EthereumListsID ID = "ethereum_lists"
	TokenListsID    ID = "token_lists"
	IconsID         ID = "icons"
	OverridesID     ID = "overrides"
	ScamsID         ID = "scams"
	MarketDataID    ID = "market_data"
)

// IDs returns all available source IDs.
func IDs() []ID {
	return []ID{
		ContractMapID,
		EthereumListsID,
		TokenListsID,
		IconsID,
		OverridesID,
		ScamsID,
		MarketDataID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Source is a token data source.
type Source interface {
	// ID returns the identifier of this source.
	ID() ID

	// Fetch retrieves and normalizes the source's data. Any malformed
	// record fails the whole fetch.
	Fetch(ctx context.Context) error

	// Len returns the number of records normalized by the last Fetch.
	Len() int
}

// Sources is a thread-safe container for managing multiple data sources.
type Sources struct {
	mu      sync.RWMutex
	sources map[ID]Source
}

// NewSources creates a new Sources instance.
func NewSources() *Sources {
	return &Sources{
		sources: make(map[ID]Source),
	}
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set registers a source under its ID, replacing any previous one.
func (s *Sources) Set(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID()] = src
}

// Delete deletes a source by ID.
func (s *Sources) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
}

// Len returns the number of sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// List returns all sources ordered by ID.
func (s *Sources) List() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Source, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, src)
	}
	slices.SortFunc(out, func(a, b Source) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

// IDs returns the registered source IDs in order.
func (s *Sources) IDs() []ID {
	list := s.List()
	ids := make([]ID, len(list))
	for i, src := range list {
		ids[i] = src.ID()
	}
	return ids
}
