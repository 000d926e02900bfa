package build

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tokenmap"
	"github.com/agentstation/tokenmap/internal/cmd/application"
	"github.com/agentstation/tokenmap/pkg/output"
	"github.com/agentstation/tokenmap/pkg/reconciler"
	"github.com/agentstation/tokenmap/pkg/tokens"
)

type fakeClient struct {
	result  *tokenmap.Result
	err     error
	built   int
	watched int
	hooks   int
}

func (f *fakeClient) Build(context.Context) (*tokenmap.Result, error) {
	f.built++
	return f.result, f.err
}

func (f *fakeClient) Watch(context.Context) error {
	f.watched++
	return nil
}

func (f *fakeClient) OnTokenAdded(tokenmap.TokenAddedHook)     { f.hooks++ }
func (f *fakeClient) OnTokenUpdated(tokenmap.TokenUpdatedHook) { f.hooks++ }
func (f *fakeClient) OnTokenRemoved(tokenmap.TokenRemovedHook) { f.hooks++ }
func (f *fakeClient) Lists() []tokenmap.ListInfo               { return nil }

func testResult() *tokenmap.Result {
	return &tokenmap.Result{
		Result: &reconciler.Result{
			Stats: reconciler.ResultStatistics{
				Total:    3,
				Curated:  1,
				Verified: 2,
				ByOrigin: map[string]int{"coingecko": 2, "ethereum-lists": 1},
			},
			Duration: 2 * time.Second,
		},
		Artifacts: output.Artifacts{
			Lean: output.Envelope{Tokens: make([]tokens.Token, 2)},
		},
		Written:  true,
		FullPath: "output/rainbow-token-list.json",
		LeanPath: "output/lean-rainbow-token-list.json",
	}
}

func run(t *testing.T, fake *fakeClient, args ...string) (string, []tokenmap.Option, error) {
	t.Helper()
	var got []tokenmap.Option
	app := &application.Mock{
		TokenmapFunc: func(opts ...tokenmap.Option) (tokenmap.Client, error) {
			got = opts
			return fake, nil
		},
		OutputFormatFunc: func() string { return "json" },
	}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), got, err
}

func TestBuildCommand(t *testing.T) {
	fake := &fakeClient{result: testResult()}
	out, opts, err := run(t, fake)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.built)
	assert.Len(t, opts, 5)

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 3, s.Tokens)
	assert.Equal(t, 2, s.Lean)
	assert.Equal(t, 2, s.ByOrigin["coingecko"])
	assert.Equal(t, "output/rainbow-token-list.json", s.FullPath)
	assert.Equal(t, "2s", s.Duration)
}

func TestBuildCommandFlags(t *testing.T) {
	fake := &fakeClient{result: testResult()}
	_, opts, err := run(t, fake, "--policy", "membership", "--lenient-decimals", "--metrics-file", "m.prom")
	require.NoError(t, err)
	assert.Len(t, opts, 8)
}

func TestBuildCommandInvalidPolicy(t *testing.T) {
	fake := &fakeClient{result: testResult()}
	_, _, err := run(t, fake, "--policy", "popularity")
	require.Error(t, err)
	assert.Zero(t, fake.built)
}

func TestBuildCommandWatch(t *testing.T) {
	fake := &fakeClient{result: testResult()}
	_, _, err := run(t, fake, "--watch")
	require.NoError(t, err)
	assert.Zero(t, fake.built)
	assert.Equal(t, 1, fake.watched)
	assert.Equal(t, 3, fake.hooks)
}

func TestSummaryTable(t *testing.T) {
	res := testResult()
	res.Written = false
	data := NewSummary(res).Table()

	assert.Equal(t, []string{"Metric", "Value"}, data.Headers)
	assert.Contains(t, data.Rows, []string{"origin coingecko", "2"})
	assert.Contains(t, data.Rows, []string{"origin ethereum-lists", "1"})
	assert.Equal(t, []string{"written", "no (dry run)"}, data.Rows[len(data.Rows)-1])
}
