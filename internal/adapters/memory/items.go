package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/platform/observer"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var (
	_ ports.ItemRepository        = (*ItemRepository)(nil)
	_ ports.Observable[item.Item] = (*ItemRepository)(nil)
)

// ItemRepository stores items and announces creations and deletions to
// subscribed observers.
type ItemRepository struct {
	rows      *table[item.ID, item.Item]
	now       Clock
	observers observer.Registry[item.Item]
}

// NewItemRepository creates an empty ItemRepository.
func NewItemRepository(now Clock) *ItemRepository {
	if now == nil {
		now = time.Now
	}
	return &ItemRepository{rows: newTable[item.ID, item.Item](), now: now}
}

// Subscribe registers o for item creations and deletions.
func (r *ItemRepository) Subscribe(o observer.Observer[item.Item]) observer.Token {
	return r.observers.Subscribe(o)
}

// Unsubscribe removes the observer registered under token.
func (r *ItemRepository) Unsubscribe(token observer.Token) bool {
	return r.observers.Unsubscribe(token)
}

// Find returns the item with the given ID.
func (r *ItemRepository) Find(_ context.Context, id item.ID) (*item.Item, error) {
	it, ok := r.rows.get(id)
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return &it, nil
}

// ListByList returns the items of listID in the requested order.
func (r *ItemRepository) ListByList(_ context.Context, listID list.ID, sort sorting.Spec) ([]item.Item, error) {
	items := r.rows.filter(func(it item.Item) bool { return it.ListID == listID })
	item.SortTable.ResolveSpec(sort).Sort(items)
	return items, nil
}

// CountByList returns the number of items on listID.
func (r *ItemRepository) CountByList(_ context.Context, listID list.ID) (int, error) {
	return len(r.rows.filter(func(it item.Item) bool { return it.ListID == listID })), nil
}

// Create stores it, assigning an ID and timestamps when unset.
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) (*item.Item, error) {
	created := *it
	if created.ID.IsZero() {
		created.ID = item.NewID()
	}
	now := r.now()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.ModifiedAt = now
	if !r.rows.insert(created.ID, created, nil) {
		return nil, fmt.Errorf("item %s: %w", created.ID, domain.ErrConflict)
	}
	r.observers.NotifyCreated(ctx, created)
	return &created, nil
}

// Update replaces the stored item and bumps its modification time.
func (r *ItemRepository) Update(_ context.Context, it *item.Item) (*item.Item, error) {
	updated := *it
	updated.ModifiedAt = r.now()
	if _, ok := r.rows.replace(updated.ID, updated); !ok {
		return nil, fmt.Errorf("item %s: %w", updated.ID, domain.ErrNotFound)
	}
	return &updated, nil
}

// Delete removes the item with the given ID.
func (r *ItemRepository) Delete(ctx context.Context, id item.ID) error {
	removed, ok := r.rows.remove(id)
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	r.observers.NotifyDeleted(ctx, removed)
	return nil
}
