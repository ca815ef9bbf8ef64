package appctx_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
)

func TestStaged_EmptyUntilSet(t *testing.T) {
	t.Parallel()

	s := appctx.NewStaged[*string]()
	assert.False(t, s.Ready())
	assert.Nil(t, s.Get())

	title := "Birthday"
	s.Set(&title)

	got, ok := s.Load()
	assert.True(t, ok)
	assert.Equal(t, "Birthday", *got)
}

func TestStaged_ZeroValueCountsAsSet(t *testing.T) {
	t.Parallel()

	s := appctx.NewStaged[int]()
	s.Set(0)
	assert.True(t, s.Ready())
}

func TestStaged_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	s := appctx.NewStaged[int]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			if i%2 == 0 {
				s.Set(i)
				return
			}
			_ = s.Get()
		})
	}
	wg.Wait()

	assert.True(t, s.Ready())
	assert.Zero(t, s.Get()%2, "only even branches write")
}
