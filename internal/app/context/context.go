// Package appctx provides the execution handle every action runs with.
//
// A RequestContext is a context.Context that also remembers what the
// action already read and queues what it wants to write. Reads are
// memoized per key, and concurrent branches asking for the same key share
// one fetch. Writes are staged as steps and run in order by Commit, which
// rolls the finished ones back when a later one fails:
//
//	rc := appctx.New(ctx)
//	owner, err := appctx.GetOrFetch(rc, lookup.UserKey(id), fetchUser)
//	...
//	err = rc.Stage(lookup.ListKey(l.ID), l, storeList)
//	...
//	err = rc.Commit(ctx)
package appctx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/edmw/wishlist-sub003/internal/domain"
)

var _ domain.WriteStager = (*RequestContext)(nil)

var (
	// ErrAlreadyCommitted is returned when steps are added to or committed
	// from a context that was committed or rolled back.
	ErrAlreadyCommitted = errors.New("appctx: request context already committed")

	// ErrNilStep is returned when a nil step is queued.
	ErrNilStep = errors.New("appctx: nil step")

	// ErrTypeMismatch is returned by GetOrFetch when a key was memoized
	// with another type. It always indicates a programming error.
	ErrTypeMismatch = errors.New("appctx: cached value type mismatch")
)

// RequestContext carries one action's memoized reads and staged writes.
// Create one per action and do not share it; within the action it is safe
// for concurrent use.
type RequestContext struct {
	context.Context

	memo memo

	queueMu   sync.Mutex
	items     []stepItem
	committed bool
}

// New returns a RequestContext over ctx.
func New(ctx context.Context) *RequestContext {
	return &RequestContext{Context: ctx, memo: memo{results: map[string]result{}}}
}

// OrNew returns rc, or a fresh RequestContext over ctx when rc is nil.
func OrNew(ctx context.Context, rc *RequestContext) *RequestContext {
	if rc != nil {
		return rc
	}
	return New(ctx)
}

// GetOrFetch returns what key resolved to earlier in this action, or calls
// fetch once and remembers the outcome, errors included. A key must always
// be read with the same T.
func GetOrFetch[T any](rc *RequestContext, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	res := rc.memo.resolve(key, func() result {
		v, err := fetch(rc.Context)
		return result{value: v, err: err}
	})
	return as[T](key, res)
}

// Forget drops what key resolved to so the next GetOrFetch fetches again.
func (rc *RequestContext) Forget(key string) {
	rc.memo.forget(key)
}

// Stage queues step for Commit and makes entity what key resolves to from
// now on, so the rest of the action reads its own write.
func (rc *RequestContext) Stage(key string, entity any, step domain.Step) error {
	if step == nil {
		return ErrNilStep
	}
	return rc.enqueue(&singleStep{step: step}, func() {
		rc.memo.put(key, result{value: entity})
	})
}

// enqueue appends item unless the context is sealed. before runs under the
// queue lock so staged values and queued steps appear together.
func (rc *RequestContext) enqueue(item stepItem, before func()) error {
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()

	if rc.committed {
		return ErrAlreadyCommitted
	}
	if before != nil {
		before()
	}
	rc.items = append(rc.items, item)
	return nil
}

type result struct {
	value any
	err   error
}

// memo maps keys to fetch results. Concurrent misses on one key are
// collapsed into a single fetch.
type memo struct {
	mu      sync.RWMutex
	results map[string]result
	flight  singleflight.Group
}

func (m *memo) get(key string) (result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.results[key]
	return res, ok
}

func (m *memo) put(key string, res result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[key] = res
}

func (m *memo) forget(key string) {
	m.mu.Lock()
	delete(m.results, key)
	m.mu.Unlock()
	m.flight.Forget(key)
}

func (m *memo) resolve(key string, fetch func() result) result {
	if res, ok := m.get(key); ok {
		return res
	}
	v, _, _ := m.flight.Do(key, func() (any, error) {
		// A caller that lost the race to an earlier flight finds its result here.
		if res, ok := m.get(key); ok {
			return res, nil
		}
		res := fetch()
		m.put(key, res)
		return res, nil
	})
	return v.(result)
}

func as[T any](key string, res result) (T, error) {
	var zero T
	switch {
	case res.err != nil:
		return zero, res.err
	case res.value == nil:
		return zero, nil
	}
	v, ok := res.value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T, requested %T", ErrTypeMismatch, key, res.value, zero)
	}
	return v, nil
}
