// Package tokenmap builds a reconciled Ethereum token catalog from several
// community sources.
//
// A build fetches every source concurrently, resolves ethereum-lists
// deprecations, computes the verified set, reconciles the lists in priority
// order, layers manual overrides and writes the full and lean catalogs.
//
// Example usage:
//
//	tm, err := tokenmap.New(
//	    tokenmap.WithOverridesPath("rainbow-overrides.json"),
//	    tokenmap.WithPolicy(verifier.PolicyMembership),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tm.OnTokenAdded(func(tok tokens.Token) {
//	    log.Printf("new token: %s %s", tok.Symbol, tok.Address)
//	})
//
//	result, err := tm.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats)
package tokenmap

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/tokenmap/internal/sources/coingecko"
	"github.com/agentstation/tokenmap/internal/transport"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/metrics"
	"github.com/agentstation/tokenmap/pkg/output"
	"github.com/agentstation/tokenmap/pkg/reconciler"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

// Client builds the token catalog.
type Client interface {
	// Builder runs builds
	Builder

	// Watcher rebuilds on a schedule
	Watcher

	// Hooks provides access to event callback registration
	Hooks

	// Lists describes the configured token lists
	Lists() []ListInfo
}

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	reconciler reconciler.Reconciler
	verifier   *verifier.Verifier
	writer     *output.Writer
	lists      *transport.Client

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	// build serializes builds; last is the previous successful result
	build sync.Mutex
	last  *Result

	hooks *hooks
}

// New creates a new Client with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	rec, err := reconciler.New(
		reconciler.WithPriority(o.priority),
		reconciler.WithCatalogList(o.catalog),
		reconciler.WithStrictDecimals(o.strictDecimals),
		reconciler.WithChainID(o.chainID),
	)
	if err != nil {
		return nil, err
	}

	market := o.marketData
	if market == nil && o.policy == verifier.PolicyMarketCap {
		tc := transport.NewWithHTTPClient(o.httpClient,
			&transport.HeaderAuth{Header: coingecko.APIKeyHeader}, o.marketDataKey)
		market = coingecko.NewWithTransport(o.marketDataURL, tc)
	}
	ver, err := verifier.New(
		verifier.WithPolicy(o.policy),
		verifier.WithMarketData(market),
		verifier.WithMinMarketCap(o.minMarketCap),
		verifier.WithBatchSize(o.batchSize),
		verifier.WithAggregators(o.aggregators[0], o.aggregators[1]),
	)
	if err != nil {
		return nil, err
	}

	w, err := output.NewWriter(
		output.WithDir(o.outputDir),
		output.WithLean(o.lean),
		output.WithVersion(o.version),
		output.WithClock(o.now),
	)
	if err != nil {
		return nil, err
	}

	c := &client{
		options:    o,
		reconciler: rec,
		verifier:   ver,
		writer:     w,
		lists:      transport.NewWithHTTPClient(o.httpClient, nil, ""),
		hooks:      newHooks(),
	}
	if err := c.setupMetrics(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *client) setupMetrics() error {
	reg := c.options.registerer
	if reg == nil && c.options.metricsFile == "" {
		return nil
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if c.options.metricsFile != "" {
		g, ok := reg.(prometheus.Gatherer)
		if !ok {
			return &errors.ConfigError{
				Component: "metrics",
				Message:   "metrics file requires a registerer that is also a gatherer",
			}
		}
		c.gatherer = g
	}

	m, err := metrics.New(reg)
	if err != nil {
		return &errors.ConfigError{Component: "metrics", Message: "registering metrics", Err: err}
	}
	c.metrics = m
	return nil
}
