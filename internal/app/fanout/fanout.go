// Package fanout resolves per-item lookups concurrently. The builders use it
// to count items per list and to resolve favorites; deleting a list uses it
// to collect the favorites of every item.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every item with at most workers calls in flight and
// returns the results in the order of items. Values below 1 mean one
// worker.
//
// The first error cancels the context seen by the other calls; calls not yet
// started are skipped. Map waits for the calls in flight and returns that
// first error with a nil slice. An empty input yields an empty, non-nil
// slice.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, items[i])
			out[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
