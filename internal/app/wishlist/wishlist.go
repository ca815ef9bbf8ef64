// Package wishlist implements the actions on someone's list as its
// visitors see it: presenting the list and reserving its items.
package wishlist

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/edmw/wishlist-sub003/internal/app/action"
	"github.com/edmw/wishlist-sub003/internal/app/builders"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/lookup"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/reservation"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

const actorName = "wishlist"

// Reference errors.
var (
	ErrInvalidUser        = &action.ReferenceError{Actor: actorName, Entity: "user"}
	ErrInvalidList        = &action.ReferenceError{Actor: actorName, Entity: "list"}
	ErrInvalidItem        = &action.ReferenceError{Actor: actorName, Entity: "item"}
	ErrInvalidReservation = &action.ReferenceError{Actor: actorName, Entity: "reservation"}
)

// Rule errors.
var (
	ErrItemAlreadyReserved = fmt.Errorf("%s: item already reserved: %w", actorName, domain.ErrConflict)
	ErrOwnItem             = fmt.Errorf("%s: items on own lists cannot be reserved: %w", actorName, domain.ErrConflict)
)

// Event kinds.
const (
	EventItemReserved   = "item.reserved"
	EventItemUnreserved = "item.unreserved"
)

// Deps are the repositories and shared services of the Actor.
type Deps struct {
	Users        ports.UserRepository
	Lists        ports.ListRepository
	Items        ports.ItemRepository
	Reservations ports.ReservationRepository
	Favorites    ports.FavoriteRepository
	Performer    *action.Performer
	Recorder     *action.Recorder
}

// Actor serves the wishlist actions. It is safe for concurrent use.
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

// PresentWishlistSpecification selects the list and the optional viewer.
type PresentWishlistSpecification struct {
	listID   list.ID
	viewerID *user.ID
}

// PresentWishlistSpecificationForList presents listID to an anonymous
// viewer.
func PresentWishlistSpecificationForList(listID list.ID) PresentWishlistSpecification {
	return PresentWishlistSpecification{listID: listID}
}

// ViewedBy presents the list to the user with the given ID; nil keeps the
// viewer anonymous.
func (s PresentWishlistSpecification) ViewedBy(id *user.ID) PresentWishlistSpecification {
	if id == nil {
		s.viewerID = nil
		return s
	}
	v := *id
	s.viewerID = &v
	return s
}

// PresentWishlistBoundaries carries the execution context.
type PresentWishlistBoundaries struct {
	action.Boundaries
}

// PresentWishlistBoundariesWith executes on rc.
func PresentWishlistBoundariesWith(rc *appctx.RequestContext) PresentWishlistBoundaries {
	return PresentWishlistBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// PresentWishlistResult is the list as the viewer may see it.
type PresentWishlistResult struct {
	User    *user.Representation
	Owner   user.PublicRepresentation
	List    list.Representation
	Items   []item.Representation
	IsOwner bool
}

// PresentWishlist checks that the viewer may see the list and returns it
// with its items, their reservation state and whether the viewer favors
// them.
func (a *Actor) PresentWishlist(spec PresentWishlistSpecification, b PresentWishlistBoundaries) (PresentWishlistResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "PresentWishlist",
		func(ctx context.Context, rc *appctx.RequestContext) (PresentWishlistResult, error) {
			l, err := lookup.List(rc, a.deps.Lists, spec.listID)
			if err != nil {
				return PresentWishlistResult{}, action.Reference(err, ErrInvalidList)
			}

			var (
				owner  user.User
				viewer *user.User
			)
			var g errgroup.Group
			g.Go(func() error {
				u, err := lookup.User(rc, a.deps.Users, l.OwnerID)
				owner = u
				return action.Reference(err, ErrInvalidList)
			})
			g.Go(func() error {
				u, err := lookup.Subject(rc, a.deps.Users, spec.viewerID)
				viewer = u
				return action.Reference(err, ErrInvalidUser)
			})
			if err := g.Wait(); err != nil {
				return PresentWishlistResult{}, err
			}

			auth, err := access.Authorize(l, owner, viewer)
			if err != nil {
				return PresentWishlistResult{}, err
			}

			reps, err := builders.NewItemsBuilder(a.deps.Items, a.deps.Reservations, a.deps.Favorites).
				ForList(l).
				ViewedBy(auth.Subject()).
				IncludeReservations(true).
				IncludeFavorites(true).
				Build(ctx)
			if err != nil {
				return PresentWishlistResult{}, err
			}

			res := PresentWishlistResult{
				Owner:   owner.RepresentPublicly(),
				List:    l.Represent(),
				Items:   reps,
				IsOwner: auth.IsOwner(),
			}
			if s := auth.Subject(); s != nil {
				rep := s.Represent()
				res.User = &rep
			}
			return res, nil
		})
}

// ReservationSpecification addresses an item on behalf of a user.
type ReservationSpecification struct {
	userID user.ID
	itemID item.ID
	listID *list.ID
}

// ReservationSpecificationForUser acts on itemID on behalf of userID.
func ReservationSpecificationForUser(userID user.ID, itemID item.ID) ReservationSpecification {
	return ReservationSpecification{userID: userID, itemID: itemID}
}

// OnList requires the item to be on listID.
func (s ReservationSpecification) OnList(listID list.ID) ReservationSpecification {
	s.listID = &listID
	return s
}

// ReservationBoundaries carries the execution context.
type ReservationBoundaries struct {
	action.Boundaries
}

// ReservationBoundariesWith executes on rc.
func ReservationBoundariesWith(rc *appctx.RequestContext) ReservationBoundaries {
	return ReservationBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// ReservationResult holds the acting user, the item and its reservation.
type ReservationResult struct {
	User        user.Representation
	Item        item.Representation
	Reservation reservation.Representation
}

// visibleItem resolves the user, the item and its list and checks that the
// user may see the list.
func (a *Actor) visibleItem(rc *appctx.RequestContext, spec ReservationSpecification) (user.User, item.Item, access.Authorization[list.List], error) {
	u, err := lookup.User(rc, a.deps.Users, spec.userID)
	if err != nil {
		return user.User{}, item.Item{}, access.Authorization[list.List]{}, action.Reference(err, ErrInvalidUser)
	}
	it, err := lookup.Item(rc, a.deps.Items, spec.itemID)
	if err != nil {
		return user.User{}, item.Item{}, access.Authorization[list.List]{}, action.Reference(err, ErrInvalidItem)
	}
	if spec.listID != nil && *spec.listID != it.ListID {
		return user.User{}, item.Item{}, access.Authorization[list.List]{}, ErrInvalidItem
	}
	l, err := lookup.List(rc, a.deps.Lists, it.ListID)
	if err != nil {
		return user.User{}, item.Item{}, access.Authorization[list.List]{}, action.Reference(err, ErrInvalidList)
	}
	owner, err := lookup.User(rc, a.deps.Users, l.OwnerID)
	if err != nil {
		return user.User{}, item.Item{}, access.Authorization[list.List]{}, action.Reference(err, ErrInvalidList)
	}
	auth, err := access.Authorize(l, owner, &u)
	if err != nil {
		return user.User{}, item.Item{}, access.Authorization[list.List]{}, err
	}
	return u, it, auth, nil
}

// AddReservationToItem reserves an item for the user. The user must be
// able to see the list and must not own it; an item holds at most one
// reservation.
func (a *Actor) AddReservationToItem(spec ReservationSpecification, b ReservationBoundaries) (ReservationResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "AddReservationToItem",
		func(ctx context.Context, rc *appctx.RequestContext) (ReservationResult, error) {
			u, it, auth, err := a.visibleItem(rc, spec)
			if err != nil {
				return ReservationResult{}, err
			}
			if auth.IsOwner() {
				return ReservationResult{}, ErrOwnItem
			}

			switch _, err := a.deps.Reservations.FindByItem(ctx, it.ID); {
			case err == nil:
				return ReservationResult{}, ErrItemAlreadyReserved
			case !errors.Is(err, domain.ErrNotFound):
				return ReservationResult{}, fmt.Errorf("finding reservation: %w", err)
			}

			res := reservation.Reservation{ID: reservation.NewID(), ItemID: it.ID, HolderID: u.ID}
			created, err := action.Stage(rc, "create reservation "+res.ID.String(),
				func(ctx context.Context) (*reservation.Reservation, error) {
					c, err := a.deps.Reservations.Create(ctx, &res)
					if errors.Is(err, domain.ErrConflict) {
						return nil, ErrItemAlreadyReserved
					}
					return c, err
				},
				func(ctx context.Context, c *reservation.Reservation) error {
					return a.deps.Reservations.Delete(ctx, c.ID)
				},
			)
			if err != nil {
				return ReservationResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:       EventItemReserved,
				SubjectID:  u.ID.String(),
				EntityID:   it.ID.String(),
				Attributes: map[string]string{"reservation_id": res.ID.String()},
			})

			if err := rc.Commit(ctx); err != nil {
				return ReservationResult{}, err
			}
			return ReservationResult{
				User:        u.Represent(),
				Item:        it.Represent().WithReservation(true, true),
				Reservation: created.Get().Represent(),
			}, nil
		})
}

// RemoveReservationFromItem removes the user's reservation of an item.
// Only the holder may remove it.
func (a *Actor) RemoveReservationFromItem(spec ReservationSpecification, b ReservationBoundaries) (ReservationResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "RemoveReservationFromItem",
		func(ctx context.Context, rc *appctx.RequestContext) (ReservationResult, error) {
			u, it, _, err := a.visibleItem(rc, spec)
			if err != nil {
				return ReservationResult{}, err
			}

			res, err := a.deps.Reservations.FindByItem(ctx, it.ID)
			if err != nil {
				return ReservationResult{}, action.Reference(err, ErrInvalidReservation)
			}
			holder, err := lookup.User(rc, a.deps.Users, res.HolderID)
			if err != nil {
				return ReservationResult{}, action.Reference(err, ErrInvalidReservation)
			}
			if _, err := access.Authorize(*res, holder, &u); err != nil {
				return ReservationResult{}, err
			}

			if err := rc.AddStep(domain.StepFunc{
				Desc: "delete reservation " + res.ID.String(),
				Do:   func(ctx context.Context) error { return a.deps.Reservations.Delete(ctx, res.ID) },
				Undo: func(ctx context.Context) error {
					_, err := a.deps.Reservations.Create(ctx, res)
					return err
				},
			}); err != nil {
				return ReservationResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:       EventItemUnreserved,
				SubjectID:  u.ID.String(),
				EntityID:   it.ID.String(),
				Attributes: map[string]string{"reservation_id": res.ID.String()},
			})

			return ReservationResult{
				User:        u.Represent(),
				Item:        it.Represent().WithReservation(false, false),
				Reservation: res.Represent(),
			}, nil
		})
}
