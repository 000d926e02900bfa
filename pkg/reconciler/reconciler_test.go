package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/tokens"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

const (
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	zrxAddr  = "0xE41d2489571d322189246DaFA5ebDe1F4699F498"
	aaveAddr = "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9"
	newAddr  = "0xabc0000000000000000000000000000000000123"
)

func rawToken(address, name, symbol string, decimals uint) tokens.RawToken {
	return tokens.RawToken{
		Address:  address,
		Name:     tokens.String(name),
		Symbol:   tokens.String(symbol),
		Decimals: tokens.NewDecimals(decimals),
	}
}

var newChecksummed = func() string {
	addr, _ := tokens.Checksum(newAddr)
	return addr
}()

func mustNew(t *testing.T, opts ...Option) Reconciler {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	return r
}

func byAddress(res *Result) map[string]Entry {
	out := make(map[string]Entry, len(res.Entries))
	for _, e := range res.Entries {
		out[e.Token.Address] = e
	}
	return out
}

func TestFold(t *testing.T) {
	low := Layer{Name: "low", Tokens: []tokens.RawToken{
		{Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Name: tokens.String("Dai"), Decimals: tokens.NewDecimals(18)},
	}}
	high := Layer{Name: "high", Tokens: []tokens.RawToken{
		{Address: daiAddr, Symbol: tokens.String("DAI")},
	}}

	merged, err := Fold(low, high)
	require.NoError(t, err)
	require.Len(t, merged, 1)

	dai := merged[daiAddr]
	assert.Equal(t, daiAddr, dai.Address)
	assert.Equal(t, "Dai", dai.NameValue())
	assert.Equal(t, "DAI", dai.SymbolValue())
	assert.Equal(t, tokens.Decimals(18), *dai.Decimals)

	// layers are not modified
	assert.Nil(t, low.Tokens[0].Symbol)
}

func TestFoldRejectsInvalidAddress(t *testing.T) {
	_, err := Fold(Layer{Name: "contract_map", Tokens: []tokens.RawToken{{Address: "0xnope"}}})
	require.Error(t, err)
	var schemaErr *errors.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "contract_map", schemaErr.Source)
}

func TestDefaultMergeOrder(t *testing.T) {
	in := &Input{
		EthListsDuplicates: []tokens.RawToken{rawToken(daiAddr, "dup", "DUP", 1)},
		EthListsUnique:     []tokens.RawToken{rawToken(daiAddr, "unique", "UNI", 2)},
		ContractMap:        []tokens.RawToken{rawToken(daiAddr, "contract", "CM", 3)},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	tok := res.Entries[0].Token
	assert.Equal(t, "contract", tok.Name)
	assert.Equal(t, uint(3), tok.Decimals)
	assert.Equal(t, OriginDefault, res.Entries[0].Origin)
}

func TestPriorityDeterminism(t *testing.T) {
	lists := map[tokens.ListID]*tokens.List{
		tokens.DharmaList:    tokens.NewList(tokens.DharmaList, nil, []tokens.RawToken{rawToken(daiAddr, "Dharma Dai", "dDAI", 8)}),
		tokens.AaveList:      tokens.NewList(tokens.AaveList, nil, []tokens.RawToken{rawToken(daiAddr, "Aave Dai", "aDAI", 18)}),
		tokens.CoinGeckoList: tokens.NewList(tokens.CoinGeckoList, nil, []tokens.RawToken{rawToken(daiAddr, "Gecko Dai", "gDAI", 6)}),
	}
	r := mustNew(t)

	for range 5 {
		res, err := r.Reconcile(context.Background(), &Input{Lists: lists})
		require.NoError(t, err)
		require.Len(t, res.Entries, 1)

		e := res.Entries[0]
		assert.Equal(t, "Aave Dai", e.Token.Name)
		assert.Equal(t, "aDAI", e.Token.Symbol)
		assert.Equal(t, uint(18), e.Token.Decimals)
		assert.Equal(t, string(tokens.AaveList), e.Origin)
	}
}

func TestCatalogOnlyAddressResolvesFromCatalog(t *testing.T) {
	lists := map[tokens.ListID]*tokens.List{
		tokens.CoinGeckoList: tokens.NewList(tokens.CoinGeckoList, nil, []tokens.RawToken{rawToken(zrxAddr, "0x", "ZRX", 18)}),
	}
	in := &Input{
		Lists:       lists,
		ContractMap: []tokens.RawToken{rawToken(zrxAddr, "0x Protocol", "ZRX", 18)},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "0x", res.Entries[0].Token.Name)
	assert.Equal(t, string(tokens.CoinGeckoList), res.Entries[0].Origin)
}

func TestAggregatorListIsNotResolved(t *testing.T) {
	lists := map[tokens.ListID]*tokens.List{
		tokens.UniswapList: tokens.NewList(tokens.UniswapList, nil, []tokens.RawToken{rawToken(daiAddr, "Uni Dai", "DAI", 18)}),
	}
	res, err := mustNew(t).Reconcile(context.Background(), &Input{Lists: lists})
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
}

func TestVerifiedTokensTakeIconColor(t *testing.T) {
	in := &Input{
		ContractMap: []tokens.RawToken{
			rawToken(daiAddr, "Dai", "DAI", 18),
			rawToken(zrxAddr, "0x", "ZRX", 18),
		},
		Icons:    tokens.IconIndex{"DAI": "#F0B340", "ZRX": "#302C2C"},
		Verified: verifier.Set{daiAddr: {}},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)
	entries := byAddress(res)

	dai := entries[daiAddr].Token
	require.NotNil(t, dai.Extensions)
	assert.Equal(t, "#F0B340", dai.Extensions.Color)
	assert.True(t, dai.Extensions.IsVerified)

	zrx := entries[zrxAddr].Token.Finalize()
	assert.Nil(t, zrx.Extensions, "unverified tokens do not take icon colors")
}

func TestOverridePrecedence(t *testing.T) {
	lists := map[tokens.ListID]*tokens.List{
		tokens.SynthetixList: tokens.NewList(tokens.SynthetixList, nil, []tokens.RawToken{rawToken(daiAddr, "Synth Dai", "sDAI", 18)}),
	}
	in := &Input{
		Lists:    lists,
		Verified: verifier.Set{daiAddr: {}},
		Icons:    tokens.IconIndex{"sDAI": "#111111"},
		Overrides: tokens.Overrides{
			daiAddr: {
				Name:        tokens.String("X"),
				Decimals:    tokens.NewDecimals(6),
				Color:       tokens.String("#222222"),
				ShadowColor: tokens.String("#333333"),
			},
		},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	e := res.Entries[0]
	assert.Equal(t, "X", e.Token.Name)
	assert.Equal(t, "sDAI", e.Token.Symbol)
	assert.Equal(t, uint(6), e.Token.Decimals)
	assert.Equal(t, "#222222", e.Token.Extensions.Color)
	assert.Equal(t, "#333333", e.Token.Extensions.ShadowColor)
	assert.True(t, e.Renamed)
	assert.True(t, e.Changed())
}

func TestOverrideVerification(t *testing.T) {
	tests := []struct {
		name         string
		computed     bool
		override     tokens.Override
		wantVerified bool
		wantCurated  bool
	}{
		{"computed only", true, tokens.Override{}, true, false},
		{"curated implies verified", false, tokens.Override{IsCurated: tokens.Bool(true)}, true, true},
		{"explicit false beats curated", false, tokens.Override{IsCurated: tokens.Bool(true), IsVerified: tokens.Bool(false)}, false, true},
		{"explicit false beats computed", true, tokens.Override{IsVerified: tokens.Bool(false)}, false, false},
		{"explicit true", false, tokens.Override{IsVerified: tokens.Bool(true)}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Input{
				ContractMap: []tokens.RawToken{rawToken(daiAddr, "Dai", "DAI", 18)},
				Overrides:   tokens.Overrides{daiAddr: tt.override},
				Verified:    verifier.Set{},
			}
			if tt.computed {
				in.Verified[daiAddr] = struct{}{}
			}
			res, err := mustNew(t).Reconcile(context.Background(), in)
			require.NoError(t, err)

			ext := res.Entries[0].Token.Ext()
			assert.Equal(t, tt.wantVerified, ext.IsVerified)
			assert.Equal(t, tt.wantCurated, ext.IsRainbowCurated)
		})
	}
}

func TestScamFlag(t *testing.T) {
	lists := map[tokens.ListID]*tokens.List{
		tokens.RollList: tokens.NewList(tokens.RollList, nil, []tokens.RawToken{rawToken(daiAddr, "Dai", "DAI", 18)}),
	}
	in := &Input{
		Lists: lists,
		Scams: map[string]tokens.ScamEntry{
			daiAddr: {IsScam: true},
			zrxAddr: {IsScam: true},
		},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)
	entries := byAddress(res)

	// resolved from a preferred list but still flagged
	assert.True(t, entries[daiAddr].Token.Ext().IsScam)
	assert.Equal(t, "Dai", entries[daiAddr].Token.Name)

	zrx := entries[zrxAddr].Token
	assert.Equal(t, tokens.ScamName, zrx.Name)
	assert.Equal(t, tokens.ScamSymbol, zrx.Symbol)
	assert.True(t, zrx.Ext().IsScam)
	assert.Equal(t, 2, res.Stats.Scam)
}

func TestSyntheticAdditions(t *testing.T) {
	t.Run("missing symbol fails with address", func(t *testing.T) {
		in := &Input{Overrides: tokens.Overrides{
			newChecksummed: {Name: tokens.String("New"), Decimals: tokens.NewDecimals(18)},
		}}
		_, err := mustNew(t).Reconcile(context.Background(), in)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrMissingField)

		var missing *errors.MissingSyntheticFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, newChecksummed, missing.Address)
		assert.Equal(t, "symbol", missing.Field)
		assert.Contains(t, err.Error(), newChecksummed)
	})

	t.Run("missing name fails", func(t *testing.T) {
		in := &Input{Overrides: tokens.Overrides{
			newChecksummed: {Symbol: tokens.String("NEW"), Decimals: tokens.NewDecimals(18)},
		}}
		_, err := mustNew(t).Reconcile(context.Background(), in)
		var missing *errors.MissingSyntheticFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "name", missing.Field)
	})

	t.Run("missing decimals strict", func(t *testing.T) {
		in := &Input{Overrides: tokens.Overrides{
			newChecksummed: {Name: tokens.String("New"), Symbol: tokens.String("NEW")},
		}}
		_, err := mustNew(t).Reconcile(context.Background(), in)
		var missing *errors.MissingSyntheticFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "decimals", missing.Field)
	})

	t.Run("missing decimals lenient", func(t *testing.T) {
		in := &Input{Overrides: tokens.Overrides{
			newChecksummed: {Name: tokens.String("New"), Symbol: tokens.String("NEW")},
		}}
		res, err := mustNew(t, WithStrictDecimals(false)).Reconcile(context.Background(), in)
		require.NoError(t, err)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, uint(18), res.Entries[0].Token.Decimals)
	})

	t.Run("complete entry is added without curation", func(t *testing.T) {
		in := &Input{Overrides: tokens.Overrides{
			newChecksummed: {Name: tokens.String("New"), Symbol: tokens.String("NEW"), Decimals: tokens.NewDecimals(8)},
		}}
		res, err := mustNew(t).Reconcile(context.Background(), in)
		require.NoError(t, err)
		require.Len(t, res.Entries, 1)

		e := res.Entries[0]
		assert.True(t, e.Synthetic)
		assert.False(t, e.Token.Ext().IsRainbowCurated)
		assert.Equal(t, 1, res.Stats.Added)
	})

	t.Run("curated entry", func(t *testing.T) {
		in := &Input{Overrides: tokens.Overrides{
			newChecksummed: {
				Name: tokens.String("New"), Symbol: tokens.String("NEW"), Decimals: tokens.NewDecimals(8),
				IsCurated: tokens.Bool(true),
			},
		}}
		res, err := mustNew(t).Reconcile(context.Background(), in)
		require.NoError(t, err)
		ext := res.Entries[0].Token.Ext()
		assert.True(t, ext.IsRainbowCurated)
		assert.True(t, ext.IsVerified)
		assert.Equal(t, 1, res.Stats.Curated)
	})

	t.Run("native key is skipped", func(t *testing.T) {
		in := &Input{Overrides: tokens.Overrides{
			"ETH": {Color: tokens.String("#25292E")},
		}}
		res, err := mustNew(t).Reconcile(context.Background(), in)
		require.NoError(t, err)
		assert.Empty(t, res.Entries)
	})
}

func TestSyntheticEtherScenario(t *testing.T) {
	in := &Input{
		ContractMap: []tokens.RawToken{rawToken(daiAddr, "Dai", "DAI", 18)},
		Overrides: tokens.Overrides{
			newChecksummed: {Symbol: tokens.String("ETH"), Name: tokens.String("Ether"), Decimals: tokens.NewDecimals(18)},
		},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)

	var matches []Entry
	for _, e := range res.Entries {
		if tokens.Key(e.Token.Address) == tokens.Key(newAddr) {
			matches = append(matches, e)
		}
	}
	require.Len(t, matches, 1)

	tok := matches[0].Token.Finalize()
	assert.Equal(t, newChecksummed, tok.Address)
	assert.Equal(t, "ETH", tok.Symbol)
	assert.Equal(t, "Ether", tok.Name)
	assert.Equal(t, uint(18), tok.Decimals)
	assert.Equal(t, uint64(1), tok.ChainID)
	assert.Nil(t, tok.Extensions)
}

func TestAddressUniqueness(t *testing.T) {
	lower := "0x6b175474e89094c44da98b954eedeac495271d0f"
	in := &Input{
		EthListsUnique: []tokens.RawToken{rawToken(lower, "Dai", "DAI", 18)},
		ContractMap:    []tokens.RawToken{rawToken(daiAddr, "Dai", "DAI", 18)},
		Lists: map[tokens.ListID]*tokens.List{
			tokens.AaveList: tokens.NewList(tokens.AaveList, nil, []tokens.RawToken{rawToken(lower, "Dai", "DAI", 18)}),
		},
		Overrides: tokens.Overrides{daiAddr: {Name: tokens.String("Dai Stablecoin")}},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, e := range res.Entries {
		assert.False(t, seen[e.Token.Address], "duplicate %s", e.Token.Address)
		seen[e.Token.Address] = true
	}
	assert.Len(t, res.Entries, 1)
	assert.Zero(t, res.Stats.Added)
}

func TestReconcileIsIdempotent(t *testing.T) {
	in := &Input{
		EthListsUnique: []tokens.RawToken{rawToken(zrxAddr, "0x", "ZRX", 18)},
		ContractMap:    []tokens.RawToken{rawToken(daiAddr, "Dai", "DAI", 18)},
		Lists: map[tokens.ListID]*tokens.List{
			tokens.AaveList: tokens.NewList(tokens.AaveList, nil, []tokens.RawToken{rawToken(aaveAddr, "Aave", "AAVE", 18)}),
		},
		Verified: verifier.Set{aaveAddr: {}},
		Icons:    tokens.IconIndex{"AAVE": "#B6509E"},
	}
	r := mustNew(t)

	first, err := r.Reconcile(context.Background(), in)
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.Tokens(), second.Tokens())
	assert.Equal(t, first.Stats, second.Stats)
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithPriority(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithPriority(Priority{tokens.AaveList, tokens.AaveList}))
	assert.Error(t, err)

	_, err = New(WithPriority(Priority{tokens.AaveList}))
	assert.Error(t, err, "catalog list must be in the order")

	r, err := New(WithPriority(Priority{tokens.AaveList, tokens.CoinGeckoList}))
	require.NoError(t, err)
	assert.Equal(t, []tokens.ListID{tokens.AaveList}, r.Preferred())
}

func TestDefaultPreferred(t *testing.T) {
	assert.Equal(t, []tokens.ListID{
		tokens.SynthetixList,
		tokens.AaveList,
		tokens.RollList,
		tokens.DharmaList,
		tokens.WrappedList,
	}, mustNew(t).Preferred())
}

func TestSyntheticTokensUseConfiguredChain(t *testing.T) {
	in := &Input{
		ContractMap: []tokens.RawToken{rawToken(daiAddr, "Dai", "DAI", 18)},
		Overrides: tokens.Overrides{
			daiAddr:        {Name: tokens.String("Dai Stablecoin"), ChainID: tokens.ChainID(10)},
			newChecksummed: {Name: tokens.String("New"), Symbol: tokens.String("NEW"), Decimals: tokens.NewDecimals(18)},
		},
	}
	res, err := mustNew(t, WithChainID(10)).Reconcile(context.Background(), in)
	require.NoError(t, err)

	entries := byAddress(res)
	assert.Equal(t, uint64(10), entries[newChecksummed].Token.ChainID)

	dai := entries[daiAddr].Token
	assert.Equal(t, "Dai Stablecoin", dai.Name)
	assert.Equal(t, uint64(1), dai.ChainID, "overrides never move an existing token to another chain")

	_, err = New(WithChainID(0))
	assert.True(t, errors.IsValidationError(err))
}

func TestResolvedOriginNamesTheList(t *testing.T) {
	in := &Input{
		ContractMap: []tokens.RawToken{rawToken(daiAddr, "Dai", "DAI", 18)},
		Lists: map[tokens.ListID]*tokens.List{
			tokens.SynthetixList: tokens.NewList(tokens.SynthetixList, nil, []tokens.RawToken{rawToken(zrxAddr, "0x", "ZRX", 18)}),
		},
	}
	res, err := mustNew(t).Reconcile(context.Background(), in)
	require.NoError(t, err)

	entries := byAddress(res)
	assert.Equal(t, "synthetix", entries[zrxAddr].Origin)
	assert.Equal(t, OriginDefault, entries[daiAddr].Origin)
	assert.Equal(t, map[string]int{"synthetix": 1, OriginDefault: 1}, res.Stats.ByOrigin)
}
