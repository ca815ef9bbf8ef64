package builders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/fanout"
	"github.com/edmw/wishlist-sub003/internal/app/lookup"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// FavoritesBuilder builds the favorites of one user, each resolved against
// its item, the item's list and the list's owner.
type FavoritesBuilder struct {
	favorites ports.FavoriteRepository
	items     ports.ItemRepository
	lists     ports.ListRepository
	users     ports.UserRepository
	workers   int

	user user.User
	sort sorting.Spec
}

// NewFavoritesBuilder creates a FavoritesBuilder.
func NewFavoritesBuilder(favorites ports.FavoriteRepository, items ports.ItemRepository, lists ports.ListRepository, users ports.UserRepository, workers int) FavoritesBuilder {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return FavoritesBuilder{favorites: favorites, items: items, lists: lists, users: users, workers: workers}
}

// ForUser selects the user whose favorites are built.
func (b FavoritesBuilder) ForUser(u user.User) FavoritesBuilder {
	b.user = u
	return b
}

// SortedBy sets the result order.
func (b FavoritesBuilder) SortedBy(spec sorting.Spec) FavoritesBuilder {
	b.sort = spec
	return b
}

// Build resolves every favorite. Favorites whose item, list or owner is
// gone, or whose list the user may no longer see, are left out. Lookups go
// through rc so favorites on the same list share one list and owner fetch.
func (b FavoritesBuilder) Build(ctx context.Context, rc *appctx.RequestContext) ([]favorite.Representation, error) {
	rc = appctx.OrNew(ctx, rc)
	order := favorite.SortTable.ResolveSpec(b.sort)

	favorites, err := b.favorites.ListByOwner(ctx, b.user.ID, order.Spec())
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	order.Sort(favorites)

	resolved, err := fanout.Map(ctx, b.workers, favorites, func(ctx context.Context, f favorite.Favorite) (*favorite.Representation, error) {
		return b.resolve(ctx, rc, f)
	})
	if err != nil {
		return nil, err
	}

	reps := make([]favorite.Representation, 0, len(resolved))
	for _, rep := range resolved {
		if rep != nil {
			reps = append(reps, *rep)
		}
	}
	return reps, nil
}

func (b FavoritesBuilder) resolve(ctx context.Context, rc *appctx.RequestContext, f favorite.Favorite) (*favorite.Representation, error) {
	it, err := lookup.Item(rc, b.items, f.ItemID)
	if err != nil {
		return skip(ctx, f, err)
	}
	l, err := lookup.List(rc, b.lists, it.ListID)
	if err != nil {
		return skip(ctx, f, err)
	}
	owner, err := lookup.User(rc, b.users, l.OwnerID)
	if err != nil {
		return skip(ctx, f, err)
	}
	if _, err := access.Authorize(l, owner, &b.user); err != nil {
		return skip(ctx, f, err)
	}
	rep := f.Represent(&it, &l, &owner)
	return &rep, nil
}

// skip drops favorites whose references vanished or turned invisible and
// fails on anything else.
func skip(ctx context.Context, f favorite.Favorite, err error) (*favorite.Representation, error) {
	var denied *access.Error
	if errors.Is(err, domain.ErrNotFound) || errors.As(err, &denied) {
		logging.FromContext(ctx).DebugContext(ctx, "skipping favorite",
			slog.String("favorite_id", f.ID.String()),
			slog.Any("reason", err),
		)
		return nil, nil
	}
	return nil, fmt.Errorf("resolving favorite %s: %w", f.ID, err)
}
