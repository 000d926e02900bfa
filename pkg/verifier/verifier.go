package verifier

import (
	"context"

	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Verifier computes the verified address set.
type Verifier struct {
	options *options
}

// New creates a Verifier. The marketcap policy requires market data.
func New(opts ...Option) (*Verifier, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.policy == PolicyMarketCap && o.market == nil {
		return nil, &errors.ConfigError{
			Component: "verifier",
			Message:   "marketcap policy requires a market data service",
		}
	}
	return &Verifier{options: o}, nil
}

// Policy returns the active policy.
func (v *Verifier) Policy() Policy {
	return v.options.policy
}

// Result is the outcome of a verification run.
type Result struct {
	Verified Set

	// Members is the number of addresses verified by list membership.
	Members int
	// Candidates is the number of aggregator addresses with a coin id.
	Candidates int
	// Qualified is the number of candidates meeting the market cap threshold.
	Qualified int
	// Batches is the number of market-data requests made.
	Batches int
}

// Verify returns the verified set for the fetched lists. preferred names the
// lists whose members are verified outright.
func (v *Verifier) Verify(ctx context.Context, lists map[tokens.ListID]*tokens.List, preferred []tokens.ListID) (*Result, error) {
	logger := logging.FromContext(ctx)

	res := &Result{Verified: Membership(lists, preferred)}
	res.Members = res.Verified.Len()

	if v.options.policy == PolicyMembership {
		logger.Debug().
			Str("policy", string(v.options.policy)).
			Int("verified", res.Verified.Len()).
			Msg("Verified tokens by list membership")
		return res, nil
	}

	candidates := Intersect(lists[v.options.aggregators[0]], lists[v.options.aggregators[1]])
	qualified, err := v.qualify(ctx, candidates, res)
	if err != nil {
		return nil, err
	}
	for _, addr := range qualified {
		res.Verified.Add(addr)
	}

	logger.Info().
		Str("policy", string(v.options.policy)).
		Int("members", res.Members).
		Int("candidates", res.Candidates).
		Int("qualified", res.Qualified).
		Int("batches", res.Batches).
		Int("verified", res.Verified.Len()).
		Msg("Verified tokens by market cap")
	return res, nil
}

// qualify returns the candidate addresses whose market cap meets the threshold.
func (v *Verifier) qualify(ctx context.Context, candidates []string, res *Result) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	coinIDs, err := v.options.market.CoinIDs(ctx)
	if err != nil {
		return nil, &errors.MarketDataError{Batch: -1, Err: err}
	}

	var ids []string
	addressesByID := make(map[string][]string)
	for _, addr := range candidates {
		id, ok := coinIDs[tokens.Key(addr)]
		if !ok || id == "" {
			continue
		}
		if _, seen := addressesByID[id]; !seen {
			ids = append(ids, id)
		}
		addressesByID[id] = append(addressesByID[id], addr)
	}
	res.Candidates = len(ids)

	var qualified []string
	for i, batch := range Batches(ids, v.options.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		quotes, err := v.options.market.Quotes(ctx, batch)
		res.Batches++
		if err != nil {
			return nil, &errors.MarketDataError{Batch: i, IDs: len(batch), Err: err}
		}
		for _, id := range batch {
			quote, ok := quotes[id]
			if !ok || quote.MarketCap.LessThan(v.options.minMarketCap) {
				continue
			}
			res.Qualified++
			qualified = append(qualified, addressesByID[id]...)
		}
	}
	return qualified, nil
}

// Membership returns the checksummed addresses of every token in the
// preferred lists.
func Membership(lists map[tokens.ListID]*tokens.List, preferred []tokens.ListID) Set {
	set := make(Set)
	for _, id := range preferred {
		list, ok := lists[id]
		if !ok {
			continue
		}
		for _, t := range list.Tokens {
			set.Add(t.Address)
		}
	}
	return set
}

// Intersect returns the addresses of a that also appear in b, in a's order
// and without repeats.
func Intersect(a, b *tokens.List) []string {
	if a == nil || b == nil {
		return nil
	}
	seen := make(map[string]bool, a.Len())
	var out []string
	for _, t := range a.Tokens {
		key := tokens.Key(t.Address)
		if seen[key] || !b.Contains(key) {
			continue
		}
		seen[key] = true
		out = append(out, t.Address)
	}
	return out
}

// Batches splits ids into consecutive chunks of at most size elements.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		return nil
	}
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
