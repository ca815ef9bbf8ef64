// Package lookup memoizes entity lookups on the request context, so
// concurrent branches of one action that need the same user or list share
// a single repository call.
package lookup

import (
	"context"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// UserKey is the cache key of a user.
func UserKey(id user.ID) string { return "user:" + id.String() }

// ListKey is the cache key of a list.
func ListKey(id list.ID) string { return "list:" + id.String() }

// ItemKey is the cache key of an item.
func ItemKey(id item.ID) string { return "item:" + id.String() }

// User returns the user with the given ID.
func User(rc *appctx.RequestContext, repo ports.UserRepository, id user.ID) (user.User, error) {
	return appctx.GetOrFetch(rc, UserKey(id), func(ctx context.Context) (user.User, error) {
		u, err := repo.Find(ctx, id)
		if err != nil {
			return user.User{}, err
		}
		return *u, nil
	})
}

// List returns the list with the given ID.
func List(rc *appctx.RequestContext, repo ports.ListRepository, id list.ID) (list.List, error) {
	return appctx.GetOrFetch(rc, ListKey(id), func(ctx context.Context) (list.List, error) {
		l, err := repo.Find(ctx, id)
		if err != nil {
			return list.List{}, err
		}
		return *l, nil
	})
}

// Item returns the item with the given ID.
func Item(rc *appctx.RequestContext, repo ports.ItemRepository, id item.ID) (item.Item, error) {
	return appctx.GetOrFetch(rc, ItemKey(id), func(ctx context.Context) (item.Item, error) {
		it, err := repo.Find(ctx, id)
		if err != nil {
			return item.Item{}, err
		}
		return *it, nil
	})
}

// Subject resolves an optional acting user. A nil id yields a nil user.
func Subject(rc *appctx.RequestContext, repo ports.UserRepository, id *user.ID) (*user.User, error) {
	if id == nil {
		return nil, nil
	}
	u, err := User(rc, repo, *id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
