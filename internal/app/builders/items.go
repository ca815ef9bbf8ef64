package builders

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/reservation"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// ItemsBuilder builds the item representations of one list as seen by a
// viewer.
type ItemsBuilder struct {
	items        ports.ItemRepository
	reservations ports.ReservationRepository
	favorites    ports.FavoriteRepository

	list             list.List
	viewer           *user.User
	sort             *sorting.Spec
	withReservations bool
	withFavorites    bool
}

// NewItemsBuilder creates an ItemsBuilder. reservations and favorites may
// be nil when the matching state is never requested.
func NewItemsBuilder(items ports.ItemRepository, reservations ports.ReservationRepository, favorites ports.FavoriteRepository) ItemsBuilder {
	return ItemsBuilder{items: items, reservations: reservations, favorites: favorites}
}

// ForList selects the list whose items are built. Unless SortedBy is
// called, items come in the list's own items order.
func (b ItemsBuilder) ForList(l list.List) ItemsBuilder {
	b.list = l
	return b
}

// ViewedBy sets the viewer; nil is an anonymous viewer.
func (b ItemsBuilder) ViewedBy(viewer *user.User) ItemsBuilder {
	b.viewer = viewer
	return b
}

// SortedBy overrides the list's items order.
func (b ItemsBuilder) SortedBy(spec sorting.Spec) ItemsBuilder {
	b.sort = &spec
	return b
}

// IncludeReservations adds reservation state. State is masked for the
// list owner when the list asks for it.
func (b ItemsBuilder) IncludeReservations(include bool) ItemsBuilder {
	b.withReservations = include
	return b
}

// IncludeFavorites marks the items the viewer has favored.
func (b ItemsBuilder) IncludeFavorites(include bool) ItemsBuilder {
	b.withFavorites = include
	return b
}

func (b ItemsBuilder) order() sorting.Order[item.Item] {
	switch {
	case b.sort != nil:
		return item.SortTable.ResolveSpec(*b.sort)
	case b.list.ItemsSorting != nil:
		return item.SortTable.ResolveSpec(*b.list.ItemsSorting)
	default:
		return item.SortTable.ResolveSpec(sorting.Spec{})
	}
}

func (b ItemsBuilder) isOwnerViewing() bool {
	return b.viewer != nil && b.viewer.ID == b.list.OwnerID
}

// Build fetches the items, then reservation and favorite state
// concurrently.
func (b ItemsBuilder) Build(ctx context.Context) ([]item.Representation, error) {
	order := b.order()

	items, err := b.items.ListByList(ctx, b.list.ID, order.Spec())
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	order.Sort(items)

	var (
		reserved  map[item.ID]reservation.Reservation
		favored   map[item.ID]bool
		withState = b.withReservations && !(b.isOwnerViewing() && b.list.Options.MaskReservations)
		withFavs  = b.withFavorites && b.viewer != nil
	)

	g, gctx := errgroup.WithContext(ctx)
	if withState && len(items) > 0 {
		g.Go(func() error {
			ids := make([]item.ID, len(items))
			for i := range items {
				ids[i] = items[i].ID
			}
			found, err := b.reservations.FindByItems(gctx, ids)
			if err != nil {
				return fmt.Errorf("finding reservations: %w", err)
			}
			reserved = found
			return nil
		})
	}
	if withFavs && len(items) > 0 {
		g.Go(func() error {
			favorites, err := b.favorites.ListByOwner(gctx, b.viewer.ID, sorting.Spec{})
			if err != nil {
				return fmt.Errorf("listing favorites: %w", err)
			}
			favored = make(map[item.ID]bool, len(favorites))
			for _, f := range favorites {
				favored[f.ItemID] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reps := make([]item.Representation, len(items))
	for i := range items {
		rep := items[i].Represent()
		if withState {
			res, ok := reserved[items[i].ID]
			byMe := ok && b.viewer != nil && res.HolderID == b.viewer.ID
			rep = rep.WithReservation(ok, byMe)
		}
		if withFavs {
			rep = rep.WithFavorite(favored[items[i].ID])
		}
		reps[i] = rep
	}
	return reps, nil
}
