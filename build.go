package tokenmap

import (
	"context"
	"time"

	"github.com/agentstation/tokenmap/internal/sources/contractmap"
	"github.com/agentstation/tokenmap/internal/sources/ethlists"
	"github.com/agentstation/tokenmap/internal/sources/git"
	"github.com/agentstation/tokenmap/internal/sources/icons"
	"github.com/agentstation/tokenmap/internal/sources/overrides"
	"github.com/agentstation/tokenmap/internal/sources/scams"
	"github.com/agentstation/tokenmap/internal/sources/tokenlists"
	"github.com/agentstation/tokenmap/pkg/dedup"
	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/metrics"
	"github.com/agentstation/tokenmap/pkg/output"
	"github.com/agentstation/tokenmap/pkg/reconciler"
	"github.com/agentstation/tokenmap/pkg/sources"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

// Compile-time interface check to ensure proper implementation.
var _ Builder = (*client)(nil)

// Builder runs a full catalog build.
type Builder interface {
	// Build fetches every source and reconciles them. Artifacts are
	// written unless the client is in dry-run mode.
	Build(ctx context.Context) (*Result, error)
}

// Result is the outcome of a build.
type Result struct {
	*reconciler.Result

	// Verification describes how the verified set was computed.
	Verification *verifier.Result

	// Artifacts are the rendered catalogs.
	Artifacts output.Artifacts

	// Written is false for dry runs.
	Written bool
	// FullPath and LeanPath are where the artifacts go.
	FullPath string
	LeanPath string
}

// sourceSet is one build's worth of sources.
type sourceSet struct {
	contractMap *contractmap.Source
	ethLists    *ethlists.Source
	tokenLists  *tokenlists.Source
	icons       *icons.Source
	overrides   *overrides.Source
	scams       *scams.Source
}

func (c *client) newSources() *sourceSet {
	o := c.options
	repos := o.repositories

	var iconOverrides git.Repository
	if repos.IconOverrides != "" {
		iconOverrides = git.Open(repos.IconOverrides, o.workDir, "icon-overrides", icons.OverridesSubdir)
	}

	listOpts := []tokenlists.Option{tokenlists.WithChainID(o.chainID)}
	for id, url := range o.listURLs {
		listOpts = append(listOpts, tokenlists.WithURL(id, url))
	}

	return &sourceSet{
		contractMap: contractmap.New(git.Open(repos.ContractMap, o.workDir, "contract-map", "")),
		ethLists:    ethlists.New(git.Open(repos.EthereumLists, o.workDir, "ethereum-lists", ethlists.Subdir)),
		tokenLists:  tokenlists.New(c.lists, listOpts...),
		icons:       icons.New(git.Open(repos.Icons, o.workDir, "icons", ""), iconOverrides),
		overrides:   overrides.New(o.overridesPath, o.chainID),
		scams:       scams.New(o.scamsPath),
	}
}

func (s *sourceSet) list() []sources.Source {
	return []sources.Source{s.contractMap, s.ethLists, s.tokenLists, s.icons, s.overrides, s.scams}
}

// Build implements Builder.
func (c *client) Build(ctx context.Context) (*Result, error) {
	c.build.Lock()
	defer c.build.Unlock()

	ctx = logging.WithOperation(ctx, "build")
	logger := logging.FromContext(ctx)
	start := time.Now()

	srcs := c.newSources()
	if err := sources.FetchAll(ctx, srcs.list(), c.metrics); err != nil {
		return nil, err
	}

	resolved := dedup.ResolveDeprecations(srcs.ethLists.Tokens())
	unique, duplicates := dedup.PartitionByUniqueness(resolved)
	logger.Debug().
		Int("unique", len(unique)).
		Int("duplicates", len(duplicates)).
		Msg("Partitioned ethereum-lists tokens")

	lists := srcs.tokenLists.Lists()
	verification, err := c.verifier.Verify(ctx, lists, c.reconciler.Preferred())
	if err != nil {
		return nil, err
	}
	c.metrics.AddMarketBatches(verification.Batches)

	reconciled, err := c.reconciler.Reconcile(ctx, &reconciler.Input{
		EthListsUnique:     unique,
		EthListsDuplicates: duplicates,
		ContractMap:        srcs.contractMap.Tokens(),
		Lists:              lists,
		Scams:              srcs.scams.Entries(),
		Overrides:          srcs.overrides.Overrides(),
		Icons:              srcs.icons.Index(),
		Verified:           verification.Verified,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Result: reconciled, Verification: verification}
	res.FullPath, res.LeanPath = c.writer.Paths()
	if c.options.dryRun {
		res.Artifacts = c.writer.Render(reconciled.Entries)
	} else {
		if res.Artifacts, err = c.writer.Write(ctx, reconciled.Entries); err != nil {
			return nil, err
		}
		res.Written = true
	}

	elapsed := time.Since(start)
	c.recordBuild(ctx, reconciled.Stats, elapsed)

	logger.Info().
		Int("tokens", reconciled.Stats.Total).
		Int("curated", reconciled.Stats.Curated).
		Int("verified", reconciled.Stats.Verified).
		Int("scam", reconciled.Stats.Scam).
		Int("added", reconciled.Stats.Added).
		Bool("written", res.Written).
		Dur("duration", elapsed).
		Msg("Built token list")

	if c.last != nil {
		c.hooks.trigger(c.last.Tokens(), reconciled.Tokens())
	}
	c.last = res
	return res, nil
}

func (c *client) recordBuild(ctx context.Context, s reconciler.ResultStatistics, d time.Duration) {
	c.metrics.RecordBuild(metrics.Counts{
		Total:    s.Total,
		Curated:  s.Curated,
		Verified: s.Verified,
		Scam:     s.Scam,
		Added:    s.Added,
		Renamed:  s.Renamed,
	}, d, c.options.now())

	if c.gatherer == nil {
		return
	}
	if err := metrics.WriteTextfile(c.options.metricsFile, c.gatherer); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", c.options.metricsFile).Msg("Failed to write metrics")
	}
}
