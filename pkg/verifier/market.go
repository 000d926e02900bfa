package verifier

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is the market snapshot for one coin id.
type Quote struct {
	MarketCap     decimal.Decimal
	Volume24h     decimal.Decimal
	LastUpdatedAt int64
}

// MarketData is the external market-data service.
type MarketData interface {
	// CoinIDs maps lowercase mainnet contract addresses to coin ids.
	CoinIDs(ctx context.Context) (map[string]string, error)
	// Quotes returns quotes for at most one batch of ids. Ids the service
	// does not know are absent from the result.
	Quotes(ctx context.Context, ids []string) (map[string]Quote, error)
}
