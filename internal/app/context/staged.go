package appctx

import "sync"

// Staged holds the value a pending step produces once the request context
// commits, for example the entity a repository created. Until then Get
// returns the zero value and Ready reports false. It is safe for use by
// the fan-out branches that read and refresh a shared entity.
type Staged[T any] struct {
	mu    sync.RWMutex
	val   T
	ready bool
}

// NewStaged returns an empty Staged.
func NewStaged[T any]() *Staged[T] {
	return &Staged[T]{}
}

// Get returns the produced value, or the zero value before the step ran.
func (s *Staged[T]) Get() T {
	v, _ := s.Load()
	return v
}

// Load returns the produced value and whether the step has run.
func (s *Staged[T]) Load() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.ready
}

// Ready reports whether a value was set.
func (s *Staged[T]) Ready() bool {
	_, ok := s.Load()
	return ok
}

// Set records v, replacing a value an earlier step produced.
func (s *Staged[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val, s.ready = v, true
}
