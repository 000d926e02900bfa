package lists

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tokenmap"
	"github.com/agentstation/tokenmap/internal/cmd/application"
	"github.com/agentstation/tokenmap/internal/cmd/output"
)

type listsOnly struct {
	tokenmap.Client
	lists []tokenmap.ListInfo
}

func (l listsOnly) Lists() []tokenmap.ListInfo { return l.lists }

func TestListsTable(t *testing.T) {
	data := Lists{
		{ID: "coingecko", URL: "https://tokens.coingecko.com/uniswap/all.json", Role: tokenmap.RolePreferred, Rank: 1},
		{ID: "uniswap", URL: "https://tokens.uniswap.org", Role: tokenmap.RoleAggregator},
	}.Table()

	assert.Equal(t, []string{"Rank", "ID", "Role", "URL"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "1", data.Rows[0][0])
	assert.Equal(t, "-", data.Rows[1][0])
	assert.Equal(t, "aggregator", data.Rows[1][2])
	assert.Equal(t, output.AlignRight, data.ColumnAlignment[0])
}

func TestListsCommand(t *testing.T) {
	client := listsOnly{lists: []tokenmap.ListInfo{
		{ID: "coingecko", URL: "https://example.com/cg.json", Role: tokenmap.RoleCatalog, Rank: 1},
	}}
	app := &application.Mock{
		TokenmapFunc: func(...tokenmap.Option) (tokenmap.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return "yaml" },
	}

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "https://example.com/cg.json")
	assert.Contains(t, out.String(), "catalog")
}
