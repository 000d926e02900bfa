package sources

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/tokenmap/pkg/logging"
	"github.com/agentstation/tokenmap/pkg/metrics"
)

// Recorder receives per-source fetch outcomes.
type Recorder interface {
	RecordSource(source string, records int, err error, d time.Duration)
}

var _ Recorder = (*metrics.Metrics)(nil)

// FetchAll fetches every source concurrently and waits for all of them.
// The first failure cancels the others and is returned.
func FetchAll(ctx context.Context, srcs []Source, rec Recorder) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range srcs {
		g.Go(func() error {
			return fetchOne(gctx, src, rec)
		})
	}
	return g.Wait()
}

func fetchOne(ctx context.Context, src Source, rec Recorder) error {
	ctx = logging.WithSource(ctx, src.ID().String())
	logger := logging.FromContext(ctx)

	start := time.Now()
	logger.Debug().Msg("Fetching source")

	err := src.Fetch(ctx)
	elapsed := time.Since(start)
	if rec != nil {
		rec.RecordSource(src.ID().String(), src.Len(), err, elapsed)
	}
	if err != nil {
		logger.Error().Err(err).Dur("duration", elapsed).Msg("Source failed")
		return err
	}

	logger.Info().
		Int("records", src.Len()).
		Dur("duration", elapsed).
		Msg("Fetched source")
	return nil
}
