package overrides

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

const (
	dai = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	zrx = "0xE41d2489571d322189246DaFA5ebDe1F4699F498"
)

const jsonDoc = `{
  "ETH": {"color": "#25292e", "isCurated": true},
  "0x6b175474e89094c44da98b954eedeac495271d0f": {
    "name": "Dai",
    "symbol": "DAI",
    "decimals": 18,
    "isVerified": false
  }
}`

const yamlDoc = `
"0xe41d2489571d322189246dafa5ebde1f4699f498":
  name: "0x Protocol"
  symbol: ZRX
  decimals: 18
  shadowColor: "#333333"
`

func TestParseJSON(t *testing.T) {
	ovs, err := Parse("rainbow-overrides.json", []byte(jsonDoc))
	require.NoError(t, err)
	require.Len(t, ovs, 2)

	eth, ok := ovs.Get("ETH")
	require.True(t, ok)
	assert.True(t, eth.Curated())

	ov, ok := ovs.Get(dai)
	require.True(t, ok)
	assert.Equal(t, "Dai", *ov.Name)
	require.NotNil(t, ov.Decimals)
	assert.Equal(t, tokens.Decimals(18), *ov.Decimals)
	require.NotNil(t, ov.IsVerified)
	assert.False(t, *ov.IsVerified)
	assert.Nil(t, ov.ChainID)
}

func TestParseYAML(t *testing.T) {
	ovs, err := Parse("overrides.yaml", []byte(yamlDoc))
	require.NoError(t, err)

	ov, ok := ovs.Get(zrx)
	require.True(t, ok)
	assert.Equal(t, "ZRX", *ov.Symbol)
	assert.Equal(t, "#333333", *ov.ShadowColor)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("o.json", []byte(`{"0x123": {"name": "bad"}}`))
	assert.True(t, errors.IsValidationError(err))

	dup := `{"` + dai + `": {}, "0x6b175474e89094c44da98b954eedeac495271d0f": {}}`
	_, err = Parse("o.json", []byte(dup))
	assert.True(t, errors.IsValidationError(err))

	_, err = Parse("o.json", []byte(`[`))
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.json"), []byte(jsonDoc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10.yaml"), []byte(yamlDoc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	src := New(dir, 1)
	require.NoError(t, src.Fetch(context.Background()))
	assert.Equal(t, 2, src.Len())

	ovs := src.Overrides()
	require.NotNil(t, ovs[dai].ChainID)
	assert.Equal(t, uint64(1), *ovs[dai].ChainID)
	_, ok := ovs.Get(zrx)
	assert.False(t, ok, "chain 10 overrides stay out of a chain 1 build")

	optimism, err := Load(dir, 10)
	require.NoError(t, err)
	require.Len(t, optimism, 1)
	assert.Equal(t, uint64(10), *optimism[zrx].ChainID)

	none, err := Load(dir, 137)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoadDirectorySameAddressOnTwoChains(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.json"), []byte(`{"`+dai+`": {"name": "Dai"}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10.json"), []byte(`{"`+dai+`": {"name": "Optimism Dai"}}`), 0o600))

	mainnet, err := Load(dir, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dai", *mainnet[dai].Name)

	optimism, err := Load(dir, 10)
	require.NoError(t, err)
	assert.Equal(t, "Optimism Dai", *optimism[dai].Name)
}

func TestLoadFileFiltersPinnedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rainbow-overrides.json")
	doc := `{
  "` + dai + `": {"name": "Dai"},
  "` + zrx + `": {"name": "0x on Optimism", "chainId": 10}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	ovs, err := Load(path, 1)
	require.NoError(t, err)
	assert.Len(t, ovs, 1)
	_, ok := ovs.Get(dai)
	assert.True(t, ok)
}

func TestLoadDirectoryErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mainnet.json"), []byte(`{}`), 0o600))
	_, err := Load(dir, 1)
	assert.True(t, errors.IsValidationError(err))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.json"), []byte(jsonDoc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.yaml"), []byte(`"`+strings.ToLower(dai)+`": {symbol: DAI}`), 0o600))
	_, err = Load(dir, 1)
	assert.True(t, errors.IsValidationError(err), "same chain, same address in two files")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.json"), []byte(`{"`+dai+`": {"chainId": 10}}`), 0o600))
	_, err = Load(dir, 1)
	assert.True(t, errors.IsValidationError(err), "entry pinned to another chain")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"), 1)
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestValidate(t *testing.T) {
	ovs := tokens.Overrides{
		dai: {Name: tokens.String(" "), Color: tokens.String("red")},
		zrx: {Symbol: tokens.String("ZRX"), ShadowColor: tokens.String("#fff")},
	}
	err := Validate(ovs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "color")
	assert.NotContains(t, err.Error(), zrx)

	assert.NoError(t, Validate(tokens.Overrides{zrx: {Symbol: tokens.String("ZRX")}}))
}
