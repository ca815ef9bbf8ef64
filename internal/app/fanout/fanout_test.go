package fanout_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/edmw/wishlist-sub003/internal/app/fanout"
)

func TestMap_Empty(t *testing.T) {
	t.Parallel()

	got, err := fanout.Map(context.Background(), 4, nil, func(context.Context, int) (int, error) {
		t.Fatal("fn called for empty input")
		return 0, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMap_PreservesOrder(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOf(rapid.IntRange(0, 1000)).Draw(t, "items")
		workers := rapid.IntRange(-1, 8).Draw(t, "workers")

		got, err := fanout.Map(context.Background(), workers, items, func(_ context.Context, n int) (int, error) {
			if n%3 == 0 {
				time.Sleep(time.Microsecond)
			}
			return n * 2, nil
		})
		if err != nil {
			t.Fatalf("Map: %v", err)
		}
		if len(got) != len(items) {
			t.Fatalf("len = %d, want %d", len(got), len(items))
		}
		for i, n := range items {
			if got[i] != n*2 {
				t.Fatalf("got[%d] = %d, want %d", i, got[i], n*2)
			}
		}
	})
}

func TestMap_RespectsWorkerLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	_, err := fanout.Map(context.Background(), 3, make([]struct{}, 20), func(context.Context, struct{}) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Positive(t, peak.Load())
}

func TestMap_FirstErrorCancelsRest(t *testing.T) {
	t.Parallel()

	errLookup := errors.New("list lookup failed")
	var calls atomic.Int32

	got, err := fanout.Map(context.Background(), 1, []int{1, 2, 3, 4}, func(ctx context.Context, n int) (int, error) {
		calls.Add(1)
		if n == 2 {
			return 0, errLookup
		}
		return n, ctx.Err()
	})
	require.ErrorIs(t, err, errLookup)
	assert.Nil(t, got)
	assert.EqualValues(t, 2, calls.Load(), "items after the failure are skipped")
}

func TestMap_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	_, err := fanout.Map(ctx, 2, []int{1, 2, 3}, func(context.Context, int) (int, error) {
		calls.Add(1)
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}
