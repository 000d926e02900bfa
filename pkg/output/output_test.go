package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tokenmap/pkg/reconciler"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

var fixedClock = func() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 45, 123_000_000, time.FixedZone("CET", 3600))
}

func tok(address, symbol string) tokens.Token {
	return tokens.Token{Address: address, ChainID: 1, Decimals: 18, Name: symbol + " Token", Symbol: symbol}
}

func symbols(toks []tokens.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Symbol
	}
	return out
}

func TestSort(t *testing.T) {
	toks := []tokens.Token{
		tok("0x0000000000000000000000000000000000000003", "ZRX"),
		tok("0x0000000000000000000000000000000000000001", "AAVE"),
		tok("0x0000000000000000000000000000000000000002", "DAI"),
	}
	Sort(toks)
	assert.Equal(t, []string{"AAVE", "DAI", "ZRX"}, symbols(toks))
}

func TestSortIsLocaleAwareAndTotal(t *testing.T) {
	toks := []tokens.Token{
		tok("0x0000000000000000000000000000000000000002", "b"),
		tok("0x0000000000000000000000000000000000000009", "DAI"),
		tok("0x0000000000000000000000000000000000000001", "DAI"),
		tok("0x0000000000000000000000000000000000000003", "A"),
	}
	Sort(toks)

	assert.Equal(t, []string{"A", "b", "DAI", "DAI"}, symbols(toks))
	assert.Equal(t, "0x0000000000000000000000000000000000000001", toks[2].Address)
	assert.Equal(t, "0x0000000000000000000000000000000000000009", toks[3].Address)
}

func TestEnvelopeMarshal(t *testing.T) {
	env := NewEnvelope(nil, fixedClock(), DefaultVersion)
	data, err := env.Marshal()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Rainbow Token List", got["name"])
	assert.Equal(t, ListLogoURI, got["logoURI"])
	assert.Equal(t, []any{"rainbow"}, got["keywords"])
	assert.Equal(t, "2024-03-01T11:30:45.123Z", got["timestamp"])
	assert.Equal(t, map[string]any{"major": 1.0, "minor": 2.0, "patch": 1.0}, got["version"])
	assert.Equal(t, []any{}, got["tokens"])

	assert.Contains(t, string(data), "\n  \"name\": ")
	assert.NotContains(t, string(data), `\u0026`)
}

func TestRender(t *testing.T) {
	w, err := NewWriter(WithClock(fixedClock))
	require.NoError(t, err)

	plain := tok("0x0000000000000000000000000000000000000001", "ZRX")
	plain.Extensions = &tokens.Extensions{}
	colored := tok("0x0000000000000000000000000000000000000002", " DAI ")
	colored.Extensions = &tokens.Extensions{Color: " #F0B340 "}
	renamed := tok("0x0000000000000000000000000000000000000003", "AAVE")
	added := tok("0x0000000000000000000000000000000000000004", "NEW")

	arts := w.Render([]reconciler.Entry{
		{Token: plain},
		{Token: colored},
		{Token: renamed, Renamed: true},
		{Token: added, Synthetic: true},
	})

	assert.Equal(t, []string{"AAVE", "DAI", "NEW", "ZRX"}, symbols(arts.Full.Tokens))
	assert.Equal(t, []string{"AAVE", "DAI", "NEW"}, symbols(arts.Lean.Tokens))
	assert.Equal(t, arts.Full.Timestamp, arts.Lean.Timestamp)

	zrx := arts.Full.Tokens[3]
	assert.Nil(t, zrx.Extensions)
	assert.Equal(t, "#F0B340", arts.Full.Tokens[1].Extensions.Color)
}

func TestExtensionsOmittedFromJSON(t *testing.T) {
	w, err := NewWriter(WithClock(fixedClock))
	require.NoError(t, err)

	bare := tok("0x0000000000000000000000000000000000000001", "ZRX")
	bare.Extensions = &tokens.Extensions{Color: "  "}
	arts := w.Render([]reconciler.Entry{{Token: bare}})

	data, err := arts.Full.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "extensions")
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	w, err := NewWriter(WithDir(dir), WithClock(fixedClock))
	require.NoError(t, err)

	entries := []reconciler.Entry{
		{Token: tok("0x0000000000000000000000000000000000000001", "ZRX")},
		{Token: tok("0x0000000000000000000000000000000000000002", "DAI"), Synthetic: true},
	}
	_, err = w.Write(context.Background(), entries)
	require.NoError(t, err)

	fullPath, leanPath := w.Paths()
	full, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	lean, err := os.ReadFile(leanPath)
	require.NoError(t, err)

	var fullEnv, leanEnv Envelope
	require.NoError(t, json.Unmarshal(full, &fullEnv))
	require.NoError(t, json.Unmarshal(lean, &leanEnv))
	assert.Len(t, fullEnv.Tokens, 2)
	assert.Len(t, leanEnv.Tokens, 1)

	// no temp files are left behind
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestWriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(WithDir(dir), WithClock(fixedClock), WithLean(false))
	require.NoError(t, err)
	entries := []reconciler.Entry{
		{Token: tok("0x0000000000000000000000000000000000000002", "DAI")},
		{Token: tok("0x0000000000000000000000000000000000000001", "AAVE")},
	}
	fullPath, leanPath := w.Paths()

	_, err = w.Write(context.Background(), entries)
	require.NoError(t, err)
	first, err := os.ReadFile(fullPath)
	require.NoError(t, err)

	_, err = w.Write(context.Background(), entries)
	require.NoError(t, err)
	second, err := os.ReadFile(fullPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoFileExists(t, leanPath)
}

func TestWriteRestoresFullWhenLeanFails(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(WithDir(dir), WithClock(fixedClock))
	require.NoError(t, err)
	fullPath, leanPath := w.Paths()

	require.NoError(t, os.WriteFile(fullPath, []byte("previous"), 0o644))
	// a non-empty directory in the lean slot makes its rename fail
	require.NoError(t, os.MkdirAll(filepath.Join(leanPath, "blocker"), 0o755))

	entries := []reconciler.Entry{
		{Token: tok("0x0000000000000000000000000000000000000002", "DAI"), Synthetic: true},
	}
	_, err = w.Write(context.Background(), entries)
	require.Error(t, err)

	full, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(full))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.ElementsMatch(t, []string{filepath.Base(fullPath), filepath.Base(leanPath)}, names)
}

func TestWriteRemovesNewFullWhenLeanFails(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(WithDir(dir), WithClock(fixedClock))
	require.NoError(t, err)
	fullPath, leanPath := w.Paths()
	require.NoError(t, os.MkdirAll(filepath.Join(leanPath, "blocker"), 0o755))

	_, err = w.Write(context.Background(), []reconciler.Entry{
		{Token: tok("0x0000000000000000000000000000000000000001", "ZRX")},
	})
	require.Error(t, err)
	assert.NoFileExists(t, fullPath)
}

func TestWriterOptions(t *testing.T) {
	_, err := NewWriter(WithDir(""))
	assert.Error(t, err)
	_, err = NewWriter(WithFileNames("a.json", "a.json"))
	assert.Error(t, err)
	_, err = NewWriter(WithClock(nil))
	assert.Error(t, err)
}
