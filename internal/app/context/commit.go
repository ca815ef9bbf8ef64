package appctx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edmw/wishlist-sub003/internal/platform/logging"
)

// Commit runs the queued steps and groups in the order they were added. When
// one fails, everything that already ran is rolled back newest first and the
// failure is returned as "executing <description>: <cause>". Rollback errors
// are logged, never returned.
//
// Commit seals the context whatever the outcome; a second call returns
// ErrAlreadyCommitted.
func (rc *RequestContext) Commit(ctx context.Context) error {
	items, err := rc.seal()
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx).With(slog.Int("steps", len(items)))
	for i, item := range items {
		logger.DebugContext(ctx, "executing step",
			slog.Int("step", i+1),
			slog.String("description", item.description()),
		)
		if err := item.execute(ctx); err != nil {
			logger.ErrorContext(ctx, "step failed, rolling back",
				slog.Int("step", i+1),
				slog.String("description", item.description()),
				slog.Any("error", err),
			)
			unwind(ctx, logger, items[:i])
			return fmt.Errorf("executing %s: %w", item.description(), err)
		}
	}
	return nil
}

// Rollback seals the context and drops the queue. Nothing ran, so nothing is
// undone.
func (rc *RequestContext) Rollback() {
	_, _ = rc.seal()
}

// seal marks the context committed and hands over the queue. Once sealed,
// AddStep, AddGroup and Stage fail, so the returned slice is no longer
// shared.
func (rc *RequestContext) seal() ([]stepItem, error) {
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()

	if rc.committed {
		return nil, ErrAlreadyCommitted
	}
	rc.committed = true
	items := rc.items
	rc.items = nil
	return items, nil
}

// unwind rolls back done in reverse order.
func unwind(ctx context.Context, logger *slog.Logger, done []stepItem) {
	for i := len(done) - 1; i >= 0; i-- {
		item := done[i]
		logger.InfoContext(ctx, "rolling back step",
			slog.Int("step", i+1),
			slog.String("description", item.description()),
		)
		if err := item.rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.Int("step", i+1),
				slog.String("description", item.description()),
				slog.Any("error", err),
			)
		}
	}
}
