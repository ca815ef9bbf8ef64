// Package observer provides a typed, concurrency-safe subscriber registry.
// Subscriptions are identified by tokens and removed explicitly; the
// registry never holds subscribers weakly.
package observer

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Token identifies a subscription.
type Token uuid.UUID

// String implements fmt.Stringer.
func (t Token) String() string { return uuid.UUID(t).String() }

// Observer receives lifecycle notifications for entities of type E.
type Observer[E any] interface {
	Created(ctx context.Context, e E)
	Deleted(ctx context.Context, e E)
}

// Funcs adapts plain functions to Observer. Nil functions are skipped.
type Funcs[E any] struct {
	OnCreated func(ctx context.Context, e E)
	OnDeleted func(ctx context.Context, e E)
}

// Created calls OnCreated.
func (f Funcs[E]) Created(ctx context.Context, e E) {
	if f.OnCreated != nil {
		f.OnCreated(ctx, e)
	}
}

// Deleted calls OnDeleted.
func (f Funcs[E]) Deleted(ctx context.Context, e E) {
	if f.OnDeleted != nil {
		f.OnDeleted(ctx, e)
	}
}

type subscription[E any] struct {
	token    Token
	observer Observer[E]
}

// Registry holds the subscribers for one entity type. The zero value is
// ready to use.
type Registry[E any] struct {
	mu   sync.RWMutex
	subs []subscription[E]
}

// Subscribe registers o and returns the token to unsubscribe it with.
func (r *Registry[E]) Subscribe(o Observer[E]) Token {
	t := Token(uuid.New())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, subscription[E]{token: t, observer: o})
	return t
}

// Unsubscribe removes the subscription for t. It reports whether the token
// was registered.
func (r *Registry[E]) Unsubscribe(t Token) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.token == t {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of active subscriptions.
func (r *Registry[E]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// NotifyCreated calls Created on every subscriber, in subscription order.
func (r *Registry[E]) NotifyCreated(ctx context.Context, e E) {
	for _, o := range r.snapshot() {
		o.Created(ctx, e)
	}
}

// NotifyDeleted calls Deleted on every subscriber, in subscription order.
func (r *Registry[E]) NotifyDeleted(ctx context.Context, e E) {
	for _, o := range r.snapshot() {
		o.Deleted(ctx, e)
	}
}

// snapshot copies the subscribers so notifications run without the lock and
// observers may unsubscribe from within a callback.
func (r *Registry[E]) snapshot() []Observer[E] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Observer[E], len(r.subs))
	for i, s := range r.subs {
		out[i] = s.observer
	}
	return out
}
