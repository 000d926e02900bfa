// Package coingecko implements verifier.MarketData on the CoinGecko API.
package coingecko

import (
	"context"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/tokenmap/internal/transport"
	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/tokens"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// APIKeyHeader carries a pro API key.
	APIKeyHeader = "x-cg-pro-api-key"

	// Platform is the asset platform whose contract addresses are indexed.
	Platform = "ethereum"

	provider = "coingecko"
)

var _ verifier.MarketData = (*Client)(nil)

// Client is a CoinGecko market data client.
type Client struct {
	baseURL string
	http    *transport.Client
}

// New creates a client. An empty baseURL selects DefaultBaseURL; an empty
// apiKey sends unauthenticated requests.
func New(baseURL, apiKey string) *Client {
	return NewWithTransport(baseURL, transport.New(&transport.HeaderAuth{Header: APIKeyHeader}, apiKey))
}

// NewWithTransport creates a client around an existing transport.
func NewWithTransport(baseURL string, tc *transport.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: tc}
}

type coin struct {
	ID        string            `json:"id"`
	Symbol    string            `json:"symbol"`
	Name      string            `json:"name"`
	Platforms map[string]string `json:"platforms"`
}

// CoinIDs implements verifier.MarketData.
func (c *Client) CoinIDs(ctx context.Context) (map[string]string, error) {
	q := url.Values{}
	q.Set("include_platform", "true")
	q.Set("asset_platform_id", Platform)
	endpoint := c.baseURL + "/coins/list?" + q.Encode()

	var coins []coin
	if err := c.http.GetJSON(ctx, provider, endpoint, &coins); err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(coins))
	for _, cn := range coins {
		addr := strings.TrimSpace(cn.Platforms[Platform])
		if cn.ID == "" || !tokens.IsAddress(addr) {
			continue
		}
		ids[tokens.Key(addr)] = cn.ID
	}
	logging.FromContext(ctx).Debug().
		Int("coins", len(coins)).
		Int("contracts", len(ids)).
		Msg("Fetched coin listing")
	return ids, nil
}

type price struct {
	USD           decimal.NullDecimal `json:"usd"`
	MarketCap     decimal.NullDecimal `json:"usd_market_cap"`
	Volume24h     decimal.NullDecimal `json:"usd_24h_vol"`
	LastUpdatedAt int64               `json:"last_updated_at"`
}

// Quotes implements verifier.MarketData.
func (c *Client) Quotes(ctx context.Context, ids []string) (map[string]verifier.Quote, error) {
	if len(ids) == 0 {
		return map[string]verifier.Quote{}, nil
	}
	if len(ids) > constants.MarketDataBatchSize {
		return nil, &errors.ValidationError{
			Field:   "ids",
			Value:   len(ids),
			Message: "too many ids for one request",
		}
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_last_updated_at", "true")
	endpoint := c.baseURL + "/simple/price?" + q.Encode()

	var prices map[string]price
	if err := c.http.GetJSON(ctx, provider, endpoint, &prices); err != nil {
		return nil, err
	}

	quotes := make(map[string]verifier.Quote, len(prices))
	for id, p := range prices {
		quotes[id] = verifier.Quote{
			MarketCap:     p.MarketCap.Decimal,
			Volume24h:     p.Volume24h.Decimal,
			LastUpdatedAt: p.LastUpdatedAt,
		}
	}
	return quotes, nil
}
