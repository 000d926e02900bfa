// Package reconciler merges normalized token sources into one catalog keyed
// by checksummed address.
//
// The algorithm runs in fixed steps: a default merge folded over the
// community sources, the address universe, per-address resolution against
// an ordered list of providers, icon colors for verified tokens, manual
// overrides, and finally synthetic tokens that only exist in the override
// file.
package reconciler

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/tokens"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

// OriginDefault marks tokens resolved from the default merge.
const OriginDefault = "default"

// Reconciler is the main interface for reconciling token sources.
type Reconciler interface {
	// Reconcile builds the catalog. It fails on the first invalid synthetic
	// override and never returns a partial result.
	Reconcile(ctx context.Context, in *Input) (*Result, error)
	// Preferred returns the lists whose members are verified outright.
	Preferred() []tokens.ListID
}

// Input holds every normalized source.
type Input struct {
	// EthListsUnique and EthListsDuplicates are the community repository
	// records after deprecation resolution, split by symbol uniqueness.
	EthListsUnique     []tokens.RawToken
	EthListsDuplicates []tokens.RawToken
	ContractMap        []tokens.RawToken
	Lists              map[tokens.ListID]*tokens.List
	// Scams is keyed by checksummed address.
	Scams     map[string]tokens.ScamEntry
	Overrides tokens.Overrides
	Icons     tokens.IconIndex
	Verified  verifier.Set
}

// Layers returns the default merge inputs, lowest priority first.
func (in *Input) Layers(catalog tokens.ListID) []Layer {
	var catalogTokens []tokens.RawToken
	if l, ok := in.Lists[catalog]; ok {
		catalogTokens = l.Tokens
	}
	return []Layer{
		{Name: "ethereum_lists_duplicates", Tokens: in.EthListsDuplicates},
		{Name: "ethereum_lists_unique", Tokens: in.EthListsUnique},
		{Name: "contract_map", Tokens: in.ContractMap},
		{Name: string(catalog), Tokens: catalogTokens},
		{Name: "scams", Tokens: scamTokens(in.Scams)},
	}
}

func scamTokens(scams map[string]tokens.ScamEntry) []tokens.RawToken {
	addrs := make([]string, 0, len(scams))
	for addr := range scams {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	out := make([]tokens.RawToken, len(addrs))
	for i, addr := range addrs {
		out[i] = tokens.ScamToken(addr, scams[addr])
	}
	return out
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	priority       Priority
	catalog        tokens.ListID
	strictDecimals bool
	chainID        uint64
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		priority:       o.priority,
		catalog:        o.catalog,
		strictDecimals: o.strictDecimals,
		chainID:        o.chainID,
	}, nil
}

// Preferred implements Reconciler.
func (r *reconciler) Preferred() []tokens.ListID {
	return r.priority.Preferred(r.catalog)
}

// Reconcile implements Reconciler.
func (r *reconciler) Reconcile(ctx context.Context, in *Input) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	// Step 1: default merge
	defaults, err := Fold(in.Layers(r.catalog)...)
	if err != nil {
		return nil, err
	}

	// Step 2: address universe
	universe := r.universe(in, defaults)
	logger.Debug().
		Int("defaults", len(defaults)).
		Int("universe", len(universe)).
		Msg("Computed address universe")

	res := &Result{Stats: ResultStatistics{ByOrigin: make(map[string]int)}}
	inUniverse := make(map[string]bool, len(universe))

	// Steps 3-5 per address
	for _, addr := range universe {
		inUniverse[addr] = true

		origin := OriginDefault
		raw, id, ok := r.priority.Resolve(in.Lists, addr)
		if ok {
			raw, origin = stripList(raw), string(id)
		} else {
			raw = defaults[addr]
		}

		entry := r.build(in, addr, raw, origin)
		res.Entries = append(res.Entries, entry)
	}

	// Step 6: synthetic additions
	synthetic, err := r.synthesize(ctx, in, inUniverse)
	if err != nil {
		return nil, err
	}
	res.Entries = append(res.Entries, synthetic...)

	slices.SortFunc(res.Entries, func(a, b Entry) int {
		return strings.Compare(a.Token.Address, b.Token.Address)
	})
	for _, e := range res.Entries {
		res.Stats.count(e)
	}
	res.Duration = time.Since(start)

	logger.Info().
		Int("total", res.Stats.Total).
		Int("curated", res.Stats.Curated).
		Int("verified", res.Stats.Verified).
		Int("scam", res.Stats.Scam).
		Int("added", res.Stats.Added).
		Dur("duration", res.Duration).
		Msg("Reconciled token catalog")

	return res, nil
}

// universe returns the sorted union of default and preferred addresses.
func (r *reconciler) universe(in *Input, defaults Merged) []string {
	set := make(map[string]struct{}, len(defaults))
	for addr := range defaults {
		set[addr] = struct{}{}
	}
	for _, id := range r.Preferred() {
		l, ok := in.Lists[id]
		if !ok {
			continue
		}
		for _, t := range l.Tokens {
			if addr, ok := tokens.Checksum(t.Address); ok {
				set[addr] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for addr := range set {
		out = append(out, addr)
	}
	slices.Sort(out)
	return out
}

// stripList drops list-only fields that never reach the catalog.
func stripList(t tokens.RawToken) tokens.RawToken {
	t.Tags = nil
	t.Deprecation = nil
	return t
}

// build applies color resolution and override layering to one resolved token.
func (r *reconciler) build(in *Input, addr string, raw tokens.RawToken, origin string) Entry {
	tok := raw.Token(addr)
	ext := tok.Ext()
	verified := in.Verified.Has(addr)

	// Step 4: verified tokens take their brand color
	if verified {
		if color, ok := in.Icons.Color(tok.Symbol); ok {
			ext.Color = color
		}
	}

	// Step 5: overrides
	ov, hasOverride := in.Overrides.Get(addr)
	renamed := false
	if hasOverride {
		if v, ok := present(ov.Name); ok {
			renamed = renamed || v != tok.Name
			tok.Name = v
		}
		if v, ok := present(ov.Symbol); ok {
			renamed = renamed || v != tok.Symbol
			tok.Symbol = v
		}
		if ov.Decimals != nil {
			tok.Decimals = uint(*ov.Decimals)
		}
	}

	r.classify(&ext, ov, verified)
	if _, ok := in.Scams[addr]; ok {
		ext.IsScam = true
	}
	tok.Extensions = &ext

	return Entry{Token: tok, Origin: origin, Renamed: renamed}
}

// classify applies the override color and flags on top of the computed
// verification signal.
func (r *reconciler) classify(ext *tokens.Extensions, ov tokens.Override, verified bool) {
	if v, ok := present(ov.Color); ok {
		ext.Color = v
	}
	if v, ok := present(ov.ShadowColor); ok {
		ext.ShadowColor = v
	}

	ext.IsRainbowCurated = ov.Curated()
	switch {
	case ov.IsVerified != nil:
		ext.IsVerified = *ov.IsVerified
	default:
		ext.IsVerified = verified || ov.Curated()
	}
	if ov.IsScam != nil && *ov.IsScam {
		ext.IsScam = true
	}
}

// synthesize builds tokens for override addresses outside the universe.
func (r *reconciler) synthesize(ctx context.Context, in *Input, inUniverse map[string]bool) ([]Entry, error) {
	logger := logging.FromContext(ctx)

	keys := make([]string, 0, len(in.Overrides))
	for key := range in.Overrides {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var out []Entry
	for _, key := range keys {
		if tokens.IsNativeKey(key) {
			logger.Debug().Str("key", key).Msg("Skipping native asset override")
			continue
		}
		addr, ok := tokens.Checksum(key)
		if !ok {
			return nil, &errors.ValidationError{
				Field:   "overrides",
				Value:   key,
				Message: "override key is not a valid address",
			}
		}
		if inUniverse[addr] {
			continue
		}

		ov := in.Overrides[key]
		name, ok := present(ov.Name)
		if !ok {
			return nil, &errors.MissingSyntheticFieldError{Address: addr, Field: "name"}
		}
		symbol, ok := present(ov.Symbol)
		if !ok {
			return nil, &errors.MissingSyntheticFieldError{Address: addr, Field: "symbol"}
		}
		decimals := uint(constants.DefaultDecimals)
		switch {
		case ov.Decimals != nil:
			decimals = uint(*ov.Decimals)
		case r.strictDecimals:
			return nil, &errors.MissingSyntheticFieldError{Address: addr, Field: "decimals"}
		default:
			logger.Warn().Str("address", addr).Msg("Synthetic token has no decimals, defaulting to 18")
		}

		tok := tokens.Token{
			Address:  addr,
			ChainID:  r.chainID,
			Decimals: decimals,
			Name:     name,
			Symbol:   symbol,
		}

		var ext tokens.Extensions
		verified := in.Verified.Has(addr)
		if verified {
			if color, ok := in.Icons.Color(symbol); ok {
				ext.Color = color
			}
		}
		r.classify(&ext, ov, verified)
		if _, ok := in.Scams[addr]; ok {
			ext.IsScam = true
		}
		tok.Extensions = &ext

		out = append(out, Entry{Token: tok, Origin: "overrides", Synthetic: true})
	}
	return out, nil
}

// present returns the trimmed value of an optional string and whether it
// carries any text.
func present(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
