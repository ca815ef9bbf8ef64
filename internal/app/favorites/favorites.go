// Package favorites implements the actions on a user's favorite items.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/edmw/wishlist-sub003/internal/app/action"
	"github.com/edmw/wishlist-sub003/internal/app/builders"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/lookup"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

const actorName = "favorites"

// Reference errors.
var (
	ErrInvalidUser     = &action.ReferenceError{Actor: actorName, Entity: "user"}
	ErrInvalidList     = &action.ReferenceError{Actor: actorName, Entity: "list"}
	ErrInvalidItem     = &action.ReferenceError{Actor: actorName, Entity: "item"}
	ErrInvalidFavorite = &action.ReferenceError{Actor: actorName, Entity: "favorite"}
)

// Rule errors.
var (
	ErrAlreadyFavorite = fmt.Errorf("%s: item is already a favorite: %w", actorName, domain.ErrConflict)
	ErrOwnItem         = fmt.Errorf("%s: items on own lists cannot be favorites: %w", actorName, domain.ErrConflict)
)

// Event kinds.
const (
	EventFavoriteAdded   = "favorite.added"
	EventFavoriteDeleted = "favorite.deleted"
)

// Deps are the repositories and shared services of the Actor.
type Deps struct {
	Users     ports.UserRepository
	Lists     ports.ListRepository
	Items     ports.ItemRepository
	Favorites ports.FavoriteRepository
	Performer *action.Performer
	Recorder  *action.Recorder
	Workers   int
}

// Actor serves the favorite actions. It is safe for concurrent use.
type Actor struct {
	deps Deps
}

// NewActor creates an Actor.
func NewActor(deps Deps) *Actor {
	if deps.Performer == nil {
		deps.Performer = action.NewPerformer(nil)
	}
	return &Actor{deps: deps}
}

// RequestFavoritesSpecification selects whose favorites to return.
type RequestFavoritesSpecification struct {
	userID user.ID
	sort   sorting.Spec
}

// RequestFavoritesSpecificationForUser requests the favorites of userID.
func RequestFavoritesSpecificationForUser(id user.ID) RequestFavoritesSpecification {
	return RequestFavoritesSpecification{userID: id}
}

// SortedBy orders the favorites.
func (s RequestFavoritesSpecification) SortedBy(spec sorting.Spec) RequestFavoritesSpecification {
	s.sort = spec
	return s
}

// RequestFavoritesBoundaries carries the execution context.
type RequestFavoritesBoundaries struct {
	action.Boundaries
}

// RequestFavoritesBoundariesWith executes on rc.
func RequestFavoritesBoundariesWith(rc *appctx.RequestContext) RequestFavoritesBoundaries {
	return RequestFavoritesBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// RequestFavoritesResult holds the user and the favorites still visible to
// them.
type RequestFavoritesResult struct {
	User      user.Representation
	Favorites []favorite.Representation
}

// RequestFavorites returns the user's favorites resolved against their
// items and lists.
func (a *Actor) RequestFavorites(spec RequestFavoritesSpecification, b RequestFavoritesBoundaries) (RequestFavoritesResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "RequestFavorites",
		func(ctx context.Context, rc *appctx.RequestContext) (RequestFavoritesResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return RequestFavoritesResult{}, action.Reference(err, ErrInvalidUser)
			}
			reps, err := builders.NewFavoritesBuilder(a.deps.Favorites, a.deps.Items, a.deps.Lists, a.deps.Users, a.deps.Workers).
				ForUser(u).
				SortedBy(spec.sort).
				Build(ctx, rc)
			if err != nil {
				return RequestFavoritesResult{}, err
			}
			return RequestFavoritesResult{User: u.Represent(), Favorites: reps}, nil
		})
}

// FavoriteSpecification addresses an item on behalf of a user.
type FavoriteSpecification struct {
	userID user.ID
	itemID item.ID
}

// FavoriteSpecificationForUser acts on itemID on behalf of userID.
func FavoriteSpecificationForUser(userID user.ID, itemID item.ID) FavoriteSpecification {
	return FavoriteSpecification{userID: userID, itemID: itemID}
}

// FavoriteBoundaries carries the execution context.
type FavoriteBoundaries struct {
	action.Boundaries
}

// FavoriteBoundariesWith executes on rc.
func FavoriteBoundariesWith(rc *appctx.RequestContext) FavoriteBoundaries {
	return FavoriteBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// FavoriteResult holds the acting user and the favorite acted upon.
type FavoriteResult struct {
	User     user.Representation
	Favorite favorite.Representation
}

// AddFavorite marks an item as a favorite of the user. The user must be
// able to see the item's list.
func (a *Actor) AddFavorite(spec FavoriteSpecification, b FavoriteBoundaries) (FavoriteResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "AddFavorite",
		func(ctx context.Context, rc *appctx.RequestContext) (FavoriteResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return FavoriteResult{}, action.Reference(err, ErrInvalidUser)
			}
			it, err := lookup.Item(rc, a.deps.Items, spec.itemID)
			if err != nil {
				return FavoriteResult{}, action.Reference(err, ErrInvalidItem)
			}
			l, err := lookup.List(rc, a.deps.Lists, it.ListID)
			if err != nil {
				return FavoriteResult{}, action.Reference(err, ErrInvalidList)
			}
			owner, err := lookup.User(rc, a.deps.Users, l.OwnerID)
			if err != nil {
				return FavoriteResult{}, action.Reference(err, ErrInvalidList)
			}
			auth, err := access.Authorize(l, owner, &u)
			if err != nil {
				return FavoriteResult{}, err
			}
			if auth.IsOwner() {
				return FavoriteResult{}, ErrOwnItem
			}

			switch _, err := a.deps.Favorites.FindByOwnerAndItem(ctx, u.ID, it.ID); {
			case err == nil:
				return FavoriteResult{}, ErrAlreadyFavorite
			case !errors.Is(err, domain.ErrNotFound):
				return FavoriteResult{}, fmt.Errorf("finding favorite: %w", err)
			}

			f := favorite.Favorite{ID: favorite.NewID(), OwnerID: u.ID, ItemID: it.ID}
			if err := f.Validate(); err != nil {
				return FavoriteResult{}, err
			}
			created, err := action.Stage(rc, "create favorite "+f.ID.String(),
				func(ctx context.Context) (*favorite.Favorite, error) {
					c, err := a.deps.Favorites.Create(ctx, &f)
					if errors.Is(err, domain.ErrConflict) {
						return nil, ErrAlreadyFavorite
					}
					return c, err
				},
				func(ctx context.Context, c *favorite.Favorite) error { return a.deps.Favorites.Delete(ctx, c.ID) },
			)
			if err != nil {
				return FavoriteResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:       EventFavoriteAdded,
				SubjectID:  u.ID.String(),
				EntityID:   f.ID.String(),
				Attributes: map[string]string{"item_id": it.ID.String()},
			})

			if err := rc.Commit(ctx); err != nil {
				return FavoriteResult{}, fmt.Errorf("creating favorite: %w", err)
			}
			return FavoriteResult{User: u.Represent(), Favorite: created.Get().Represent(&it, &l, &owner)}, nil
		})
}

// DeleteFavorite removes the user's favorite of an item. The item itself
// may be gone already.
func (a *Actor) DeleteFavorite(spec FavoriteSpecification, b FavoriteBoundaries) (FavoriteResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "DeleteFavorite",
		func(ctx context.Context, rc *appctx.RequestContext) (FavoriteResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return FavoriteResult{}, action.Reference(err, ErrInvalidUser)
			}
			f, err := a.deps.Favorites.FindByOwnerAndItem(ctx, u.ID, spec.itemID)
			if err != nil {
				return FavoriteResult{}, action.Reference(err, ErrInvalidFavorite)
			}
			favOwner, err := lookup.User(rc, a.deps.Users, f.OwnerID)
			if err != nil {
				return FavoriteResult{}, action.Reference(err, ErrInvalidFavorite)
			}
			if _, err := access.AuthorizeOwner(*f, favOwner, &u); err != nil {
				return FavoriteResult{}, err
			}

			if err := rc.AddStep(domain.StepFunc{
				Desc: "delete favorite " + f.ID.String(),
				Do:   func(ctx context.Context) error { return a.deps.Favorites.Delete(ctx, f.ID) },
				Undo: func(ctx context.Context) error {
					_, err := a.deps.Favorites.Create(ctx, f)
					return err
				},
			}); err != nil {
				return FavoriteResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:       EventFavoriteDeleted,
				SubjectID:  u.ID.String(),
				EntityID:   f.ID.String(),
				Attributes: map[string]string{"item_id": f.ItemID.String()},
			})

			return FavoriteResult{User: u.Represent(), Favorite: a.represent(rc, *f)}, nil
		})
}

// represent resolves f for its result. References that are gone leave the
// corresponding parts empty.
func (a *Actor) represent(rc *appctx.RequestContext, f favorite.Favorite) favorite.Representation {
	rep := favorite.Representation{ID: f.ID.String(), CreatedAt: f.CreatedAt}
	it, err := lookup.Item(rc, a.deps.Items, f.ItemID)
	if err != nil {
		return rep
	}
	rep.Item = it.Represent()
	l, err := lookup.List(rc, a.deps.Lists, it.ListID)
	if err != nil {
		return rep
	}
	rep.List = l.Represent()
	if owner, err := lookup.User(rc, a.deps.Users, l.OwnerID); err == nil {
		rep.Owner = owner.RepresentPublicly()
	}
	return rep
}
