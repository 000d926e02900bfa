package contractmap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tokenmap/internal/sources/git"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

const registry = `{
  "0x6B175474E89094C44Da98b954EedeAC495271d0F": {
    "name": "Dai Stablecoin",
    "logo": "dai.svg",
    "erc20": true,
    "symbol": "DAI",
    "decimals": 18
  },
  "0xE41d2489571d322189246DaFA5ebDe1F4699F498": {
    "name": "0x Protocol Token",
    "erc20": true,
    "symbol": "ZRX",
    "decimals": "18"
  },
  "0x06012c8cf97BEaD5deAe237070F9587f8E7A266d": {
    "name": "CryptoKitties",
    "erc721": true,
    "symbol": "CK"
  }
}`

func TestParse(t *testing.T) {
	toks, err := Parse([]byte(registry))
	require.NoError(t, err)
	require.Len(t, toks, 2)

	dai := toks[0]
	assert.Equal(t, "0x6B175474E89094C44Da98b954EedeAC495271d0F", dai.Address)
	assert.Equal(t, "Dai Stablecoin", dai.NameValue())
	assert.Equal(t, "DAI", dai.SymbolValue())
	assert.Equal(t, tokens.Decimals(18), *dai.Decimals)
	assert.Nil(t, dai.Extensions)

	assert.Equal(t, tokens.Decimals(18), *toks[1].Decimals)
}

func TestParseFailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"empty name", `{"0x6B175474E89094C44Da98b954EedeAC495271d0F": {"name": "", "symbol": "DAI", "decimals": 18}}`, "name"},
		{"empty symbol", `{"0x6B175474E89094C44Da98b954EedeAC495271d0F": {"name": "Dai", "symbol": " ", "decimals": 18}}`, "symbol"},
		{"empty decimals", `{"0x6B175474E89094C44Da98b954EedeAC495271d0F": {"name": "Dai", "symbol": "DAI", "decimals": ""}}`, "decimals"},
		{"missing decimals", `{"0x6B175474E89094C44Da98b954EedeAC495271d0F": {"name": "Dai", "symbol": "DAI"}}`, "decimals"},
		{"empty address", `{"": {"name": "Dai", "symbol": "DAI", "decimals": 18}}`, "address"},
		{"bad address", `{"0x12": {"name": "Dai", "symbol": "DAI", "decimals": 18}}`, "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))

			var schemaErr *errors.SchemaValidationError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, "contract_map", schemaErr.Source)
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`[1, 2`))
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(registry), 0o600))

	src := New(&git.Local{Path: dir})
	require.NoError(t, src.Fetch(context.Background()))
	assert.Equal(t, 2, src.Len())
	assert.Equal(t, "contract_map", src.ID().String())
}

func TestFetchMissingRepository(t *testing.T) {
	src := New(&git.Local{Path: filepath.Join(t.TempDir(), "nope")})
	err := src.Fetch(context.Background())
	assert.True(t, errors.IsFetchError(err))
}
