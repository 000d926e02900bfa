package scams

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tokenmap/pkg/errors"
)

const doc = `{
  "0x6b175474e89094c44da98b954eedeac495271d0f": {"isScam": true},
  "0xE41d2489571d322189246DaFA5ebDe1F4699F498": {"isScam": false}
}`

func TestParse(t *testing.T) {
	entries, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries["0x6B175474E89094C44Da98b954EedeAC495271d0F"].IsScam)
	assert.False(t, entries["0xE41d2489571d322189246DaFA5ebDe1F4699F498"].IsScam)

	_, err = Parse([]byte(`{"not-an-address": {"isScam": true}}`))
	var schemaErr *errors.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "scams", schemaErr.Source)
}

func TestFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rainbow-scams.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	src := New(path)
	require.NoError(t, src.Fetch(context.Background()))
	assert.Equal(t, 2, src.Len())

	err := New(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
