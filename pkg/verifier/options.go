package verifier

import (
	"github.com/shopspring/decimal"

	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

type options struct {
	policy       Policy
	market       MarketData
	minMarketCap decimal.Decimal
	batchSize    int
	aggregators  [2]tokens.ListID
}

func defaultOptions() *options {
	return &options{
		policy:       PolicyMarketCap,
		minMarketCap: decimal.NewFromInt(constants.MinMarketCapUSD),
		batchSize:    constants.MarketDataBatchSize,
		aggregators:  [2]tokens.ListID{tokens.CoinGeckoList, tokens.UniswapList},
	}
}

// Option configures a Verifier.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithPolicy selects the verification policy.
func WithPolicy(policy Policy) Option {
	return func(o *options) error {
		p, err := ParsePolicy(string(policy))
		if err != nil {
			return err
		}
		o.policy = p
		return nil
	}
}

// WithMarketData sets the market-data service used by the marketcap policy.
func WithMarketData(market MarketData) Option {
	return func(o *options) error {
		o.market = market
		return nil
	}
}

// WithMinMarketCap sets the inclusive market capitalization threshold.
func WithMinMarketCap(minCap decimal.Decimal) Option {
	return func(o *options) error {
		if minCap.IsNegative() {
			return &errors.ValidationError{
				Field:   "verification.min_market_cap",
				Value:   minCap.String(),
				Message: "cannot be negative",
			}
		}
		o.minMarketCap = minCap
		return nil
	}
}

// WithBatchSize sets the number of ids per market-data request.
func WithBatchSize(size int) Option {
	return func(o *options) error {
		if size <= 0 || size > constants.MarketDataBatchSize {
			return &errors.ValidationError{
				Field:   "verification.batch_size",
				Value:   size,
				Message: "must be between 1 and 500",
			}
		}
		o.batchSize = size
		return nil
	}
}

// WithAggregators sets the two lists intersected by the marketcap policy.
func WithAggregators(a, b tokens.ListID) Option {
	return func(o *options) error {
		for _, id := range []tokens.ListID{a, b} {
			if !id.IsValid() {
				return &errors.ValidationError{
					Field:   "aggregators",
					Value:   id,
					Message: "unknown list",
				}
			}
		}
		if a == b {
			return &errors.ValidationError{
				Field:   "aggregators",
				Value:   a,
				Message: "must name two different lists",
			}
		}
		o.aggregators = [2]tokens.ListID{a, b}
		return nil
	}
}
