package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/observer"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var (
	_ ports.ListRepository        = (*ListRepository)(nil)
	_ ports.Observable[list.List] = (*ListRepository)(nil)
)

// ListRepository stores lists and announces creations and deletions to
// subscribed observers.
type ListRepository struct {
	rows      *table[list.ID, list.List]
	now       Clock
	observers observer.Registry[list.List]
}

// NewListRepository creates an empty ListRepository.
func NewListRepository(now Clock) *ListRepository {
	if now == nil {
		now = time.Now
	}
	return &ListRepository{rows: newTable[list.ID, list.List](), now: now}
}

// Subscribe registers o for list creations and deletions.
func (r *ListRepository) Subscribe(o observer.Observer[list.List]) observer.Token {
	return r.observers.Subscribe(o)
}

// Unsubscribe removes the observer registered under token.
func (r *ListRepository) Unsubscribe(token observer.Token) bool {
	return r.observers.Unsubscribe(token)
}

// Find returns the list with the given ID.
func (r *ListRepository) Find(_ context.Context, id list.ID) (*list.List, error) {
	l, ok := r.rows.get(id)
	if !ok {
		return nil, fmt.Errorf("list %s: %w", id, domain.ErrNotFound)
	}
	return &l, nil
}

// ListByOwner returns the lists of ownerID in the requested order.
func (r *ListRepository) ListByOwner(_ context.Context, ownerID user.ID, sort sorting.Spec) ([]list.List, error) {
	lists := r.rows.filter(func(l list.List) bool { return l.OwnerID == ownerID })
	list.SortTable.ResolveSpec(sort).Sort(lists)
	return lists, nil
}

// Create stores l, assigning an ID and timestamps when unset.
func (r *ListRepository) Create(ctx context.Context, l *list.List) (*list.List, error) {
	created := *l
	if created.ID.IsZero() {
		created.ID = list.NewID()
	}
	now := r.now()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.ModifiedAt = now
	if !r.rows.insert(created.ID, created, nil) {
		return nil, fmt.Errorf("list %s: %w", created.ID, domain.ErrConflict)
	}
	r.observers.NotifyCreated(ctx, created)
	return &created, nil
}

// Update replaces the stored list and bumps its modification time.
func (r *ListRepository) Update(_ context.Context, l *list.List) (*list.List, error) {
	updated := *l
	updated.ModifiedAt = r.now()
	if _, ok := r.rows.replace(updated.ID, updated); !ok {
		return nil, fmt.Errorf("list %s: %w", updated.ID, domain.ErrNotFound)
	}
	return &updated, nil
}

// Delete removes the list with the given ID.
func (r *ListRepository) Delete(ctx context.Context, id list.ID) error {
	removed, ok := r.rows.remove(id)
	if !ok {
		return fmt.Errorf("list %s: %w", id, domain.ErrNotFound)
	}
	r.observers.NotifyDeleted(ctx, removed)
	return nil
}
