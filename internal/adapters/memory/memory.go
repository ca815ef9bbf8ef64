// Package memory implements the repository and image store ports in process
// memory. Every type is safe for concurrent use and hands out copies, so
// callers never share state with the store.
package memory

import (
	"sync"
	"time"
)

// Clock returns the current time. Stores use it to stamp created and
// modified times.
type Clock func() time.Time

// table is a mutex-guarded map of entities stored by value.
type table[K comparable, V any] struct {
	mu   sync.RWMutex
	rows map[K]V
}

func newTable[K comparable, V any]() *table[K, V] {
	return &table[K, V]{rows: make(map[K]V)}
}

func (t *table[K, V]) get(k K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[k]
	return v, ok
}

// insert stores v under k unless conflict reports a clash with an existing
// row. It returns false on a clash.
func (t *table[K, V]) insert(k K, v V, conflict func(existing V) bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[k]; ok {
		return false
	}
	if conflict != nil {
		for _, row := range t.rows {
			if conflict(row) {
				return false
			}
		}
	}
	t.rows[k] = v
	return true
}

// replace overwrites an existing row and returns the previous value.
func (t *table[K, V]) replace(k K, v V) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.rows[k]
	if ok {
		t.rows[k] = v
	}
	return old, ok
}

func (t *table[K, V]) remove(k K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[k]
	if ok {
		delete(t.rows, k)
	}
	return v, ok
}

// put stores v under k, overwriting any existing row.
func (t *table[K, V]) put(k K, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[k] = v
}

func (t *table[K, V]) find(match func(V) bool) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, v := range t.rows {
		if match(v) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

func (t *table[K, V]) filter(match func(V) bool) []V {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]V, 0)
	for _, v := range t.rows {
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[K, V]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
