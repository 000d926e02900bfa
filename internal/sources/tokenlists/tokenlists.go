// Package tokenlists fetches remote token lists ({tags, tokens} documents)
// and applies per-provider filters.
package tokenlists

import (
	"context"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/tokenmap/internal/transport"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/sources"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// DefaultURLs are the public endpoints of the known providers. The wrapped
// list has no public default and is only fetched when configured.
var DefaultURLs = map[tokens.ListID]string{
	tokens.AaveList:      "https://tokenlist.aave.eth.link",
	tokens.CoinGeckoList: "https://tokens.coingecko.com/uniswap/all.json",
	tokens.DharmaList:    "https://tokenlist.dharma.eth.link",
	tokens.RollList:      "https://app.tryroll.com/tokens.json",
	tokens.SynthetixList: "https://synths.snx.eth.link",
	tokens.UniswapList:   "https://tokens.uniswap.org",
}

// Source fetches every configured token list.
type Source struct {
	client  *transport.Client
	urls    map[tokens.ListID]string
	filters map[tokens.ListID]Filter
	chainID uint64

	mu    sync.Mutex
	lists map[tokens.ListID]*tokens.List
}

// Option configures a Source.
type Option func(*Source)

// WithURL sets or replaces the endpoint of one list. An empty URL disables it.
func WithURL(id tokens.ListID, url string) Option {
	return func(s *Source) {
		if url == "" {
			delete(s.urls, id)
			return
		}
		s.urls[id] = url
	}
}

// WithFilter registers a post-fetch filter for one list.
func WithFilter(id tokens.ListID, f Filter) Option {
	return func(s *Source) {
		s.filters[id] = f
	}
}

// WithChainID keeps only tokens on the given chain. Tokens without a chain
// id are assumed to be on mainnet.
func WithChainID(id uint64) Option {
	return func(s *Source) {
		s.chainID = id
	}
}

// New creates a token list source.
func New(client *transport.Client, opts ...Option) *Source {
	if client == nil {
		client = transport.New(nil, "")
	}
	s := &Source{
		client:  client,
		urls:    maps.Clone(DefaultURLs),
		filters: DefaultFilters(),
		chainID: 1,
		lists:   make(map[tokens.ListID]*tokens.List),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.TokenListsID }

// Len implements sources.Source; it counts tokens across all lists.
func (s *Source) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lists {
		n += l.Len()
	}
	return n
}

// Lists returns the fetched lists by provider.
func (s *Source) Lists() map[tokens.ListID]*tokens.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.lists)
}

// URLs returns the configured endpoints in provider order.
func (s *Source) URLs() []Endpoint {
	ids := slices.Sorted(maps.Keys(s.urls))
	out := make([]Endpoint, len(ids))
	for i, id := range ids {
		out[i] = Endpoint{ID: id, URL: s.urls[id]}
	}
	return out
}

// Endpoint is a configured list URL.
type Endpoint struct {
	ID  tokens.ListID
	URL string
}

// Fetch implements sources.Source. Lists are fetched concurrently and any
// failure fails the source.
func (s *Source) Fetch(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, ep := range s.URLs() {
		g.Go(func() error {
			list, err := s.fetchList(gctx, ep)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.lists[ep.ID] = list
			s.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (s *Source) fetchList(ctx context.Context, ep Endpoint) (*tokens.List, error) {
	logger := logging.FromContext(ctx).With().Str("list", ep.ID.String()).Logger()

	var doc Document
	if err := s.client.GetJSON(ctx, ep.ID.String(), ep.URL, &doc); err != nil {
		return nil, errors.WrapFetch(s.ID().String()+"/"+ep.ID.String(), ep.URL, err)
	}
	toks, err := doc.Normalize(ep.ID, s.chainID)
	if err != nil {
		return nil, err
	}
	if f, ok := s.filters[ep.ID]; ok {
		before := len(toks)
		toks = f(toks)
		logger.Debug().Int("before", before).Int("after", len(toks)).Msg("Filtered token list")
	}

	logger.Debug().Int("tokens", len(toks)).Msg("Fetched token list")
	return tokens.NewList(ep.ID, doc.Tags, toks), nil
}
