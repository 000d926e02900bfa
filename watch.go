package tokenmap

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Watcher = (*client)(nil)

// Watcher rebuilds the catalog on a schedule.
type Watcher interface {
	// Watch builds immediately and then once per watch interval until ctx
	// is done. Every run recomputes the catalog from scratch; a failed run
	// is logged and leaves the previous artifacts in place.
	Watch(ctx context.Context) error
}

// Watch implements Watcher.
func (c *client) Watch(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(c.options.watchInterval)
	defer ticker.Stop()

	logger.Info().Dur("interval", c.options.watchInterval).Msg("Watching sources")
	for {
		c.scheduledBuild(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// scheduledBuild runs one bounded build and logs its failure.
func (c *client) scheduledBuild(ctx context.Context) {
	buildCtx, cancel := context.WithTimeout(ctx, constants.BuildTimeout)
	_, err := c.Build(buildCtx)
	cancel()

	if err == nil || (ctx.Err() != nil && stderrors.Is(err, context.Canceled)) {
		return
	}
	logging.FromContext(ctx).Error().Err(err).Msg("Scheduled build failed")
}
