// Package builders assembles composite representations from several
// repository calls: lists with item counts, items with reservation and
// favorite state, favorites resolved against their items. Every builder
// re-sorts its result with the entity's sort table, so the order is stable
// whatever the repository returns.
package builders

import (
	"context"
	"fmt"

	"github.com/edmw/wishlist-sub003/internal/app/fanout"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// DefaultWorkers bounds per-element secondary lookups when a builder is
// given no worker count.
const DefaultWorkers = 8

// ListsBuilder builds the list representations of one user.
type ListsBuilder struct {
	lists   ports.ListRepository
	items   ports.ItemRepository
	workers int

	ownerID     user.ID
	sort        sorting.Spec
	itemsCounts bool
}

// NewListsBuilder creates a ListsBuilder. items may be nil when item
// counts are never requested.
func NewListsBuilder(lists ports.ListRepository, items ports.ItemRepository, workers int) ListsBuilder {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return ListsBuilder{lists: lists, items: items, workers: workers}
}

// ForUser selects the owner whose lists are built.
func (b ListsBuilder) ForUser(id user.ID) ListsBuilder {
	b.ownerID = id
	return b
}

// SortedBy sets the result order.
func (b ListsBuilder) SortedBy(spec sorting.Spec) ListsBuilder {
	b.sort = spec
	return b
}

// IncludeItemsCount adds the number of items to every list.
func (b ListsBuilder) IncludeItemsCount(include bool) ListsBuilder {
	b.itemsCounts = include
	return b
}

// Build fetches the lists and, when requested, their item counts.
func (b ListsBuilder) Build(ctx context.Context) ([]list.Representation, error) {
	order := list.SortTable.ResolveSpec(b.sort)

	lists, err := b.lists.ListByOwner(ctx, b.ownerID, order.Spec())
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	order.Sort(lists)

	reps := make([]list.Representation, len(lists))
	for i := range lists {
		reps[i] = lists[i].Represent()
	}
	if !b.itemsCounts || len(lists) == 0 {
		return reps, nil
	}

	counts, err := fanout.Map(ctx, b.workers, lists, func(ctx context.Context, l list.List) (int, error) {
		return b.items.CountByList(ctx, l.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	for i, n := range counts {
		reps[i] = reps[i].WithItemsCount(n)
	}
	return reps, nil
}
