// Package health keeps the checkers behind the readiness endpoint: one per
// outbound provider (mail, pushover), each reporting its circuit breaker.
package health

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/edmw/wishlist-sub003/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// DefaultCheckTimeout bounds a single check unless WithCheckTimeout says
// otherwise.
const DefaultCheckTimeout = 2 * time.Second

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout bounds each check by d. Zero disables the bound.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// Registry runs the registered checkers concurrently. It is safe for
// concurrent use; a checker registered under a taken name replaces the
// previous one.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]ports.HealthChecker
	timeout  time.Duration
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		checkers: map[string]ports.HealthChecker{},
		timeout:  DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds checker under checker.Name().
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// CheckAll runs every checker and returns its result by name, nil meaning
// healthy. The registry lock is not held while checks run, so a slow
// provider check does not block registration.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := maps.Clone(r.checkers)
	r.mu.RUnlock()

	type result struct {
		name string
		err  error
	}
	ch := make(chan result, len(checkers))
	for name, c := range checkers {
		go func() { ch <- result{name, r.run(ctx, c)} }()
	}

	results := make(map[string]error, len(checkers))
	for range len(checkers) {
		res := <-ch
		results[res.name] = res.err
	}
	return results
}

func (r *Registry) run(ctx context.Context, c ports.HealthChecker) error {
	if r.timeout <= 0 {
		return c.HealthCheck(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return c.HealthCheck(ctx)
}
