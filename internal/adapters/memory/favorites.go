package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)

// FavoriteRepository stores favorites. A user favors an item at most once.
type FavoriteRepository struct {
	rows *table[favorite.ID, favorite.Favorite]
	now  Clock
}

// NewFavoriteRepository creates an empty FavoriteRepository.
func NewFavoriteRepository(now Clock) *FavoriteRepository {
	if now == nil {
		now = time.Now
	}
	return &FavoriteRepository{rows: newTable[favorite.ID, favorite.Favorite](), now: now}
}

// Find returns the favorite with the given ID.
func (r *FavoriteRepository) Find(_ context.Context, id favorite.ID) (*favorite.Favorite, error) {
	f, ok := r.rows.get(id)
	if !ok {
		return nil, fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

// FindByOwnerAndItem returns the favorite ownerID holds on itemID.
func (r *FavoriteRepository) FindByOwnerAndItem(_ context.Context, ownerID user.ID, itemID item.ID) (*favorite.Favorite, error) {
	f, ok := r.rows.find(func(f favorite.Favorite) bool {
		return f.OwnerID == ownerID && f.ItemID == itemID
	})
	if !ok {
		return nil, fmt.Errorf("favorite of item %s: %w", itemID, domain.ErrNotFound)
	}
	return &f, nil
}

// ListByOwner returns the favorites of ownerID in the requested order.
func (r *FavoriteRepository) ListByOwner(_ context.Context, ownerID user.ID, sort sorting.Spec) ([]favorite.Favorite, error) {
	favorites := r.rows.filter(func(f favorite.Favorite) bool { return f.OwnerID == ownerID })
	favorite.SortTable.ResolveSpec(sort).Sort(favorites)
	return favorites, nil
}

// ListByItem returns every favorite on itemID.
func (r *FavoriteRepository) ListByItem(_ context.Context, itemID item.ID) ([]favorite.Favorite, error) {
	favorites := r.rows.filter(func(f favorite.Favorite) bool { return f.ItemID == itemID })
	favorite.SortTable.ResolveSpec(sorting.Spec{}).Sort(favorites)
	return favorites, nil
}

// Create stores f. Favoring the same item twice is a conflict.
func (r *FavoriteRepository) Create(_ context.Context, f *favorite.Favorite) (*favorite.Favorite, error) {
	created := *f
	if created.ID.IsZero() {
		created.ID = favorite.NewID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now()
	}
	ok := r.rows.insert(created.ID, created, func(existing favorite.Favorite) bool {
		return existing.OwnerID == created.OwnerID && existing.ItemID == created.ItemID
	})
	if !ok {
		return nil, fmt.Errorf("favorite of item %s: %w", created.ItemID, domain.ErrConflict)
	}
	return &created, nil
}

// Delete removes the favorite with the given ID.
func (r *FavoriteRepository) Delete(_ context.Context, id favorite.ID) error {
	if _, ok := r.rows.remove(id); !ok {
		return fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
