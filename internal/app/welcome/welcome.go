// Package welcome implements the landing actions: the public presentation
// of an optional user and the signed-in welcome page.
package welcome

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/edmw/wishlist-sub003/internal/app/action"
	"github.com/edmw/wishlist-sub003/internal/app/builders"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/lookup"
	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

const actorName = "welcome"

// ErrInvalidUser is returned when the specified user does not exist.
var ErrInvalidUser = &action.ReferenceError{Actor: actorName, Entity: "user"}

// Deps are the repositories and shared services of the Actor.
type Deps struct {
	Users     ports.UserRepository
	Lists     ports.ListRepository
	Items     ports.ItemRepository
	Favorites ports.FavoriteRepository
	Performer *action.Performer
	// Workers bounds concurrent per-element lookups; zero uses the
	// builders' default.
	Workers int
}

// Actor serves the landing actions. It is safe for concurrent use.
type Actor struct {
	deps Deps
}

// NewActor creates an Actor. A nil Performer is replaced by one that
// records nothing.
func NewActor(deps Deps) *Actor {
	if deps.Performer == nil {
		deps.Performer = action.NewPerformer(nil)
	}
	return &Actor{deps: deps}
}

// PresentPubliclySpecification selects the user to present. The user is
// optional.
type PresentPubliclySpecification struct {
	userID *user.ID
}

// PresentPubliclySpecificationForUser presents the user with the given ID,
// or nobody when id is nil.
func PresentPubliclySpecificationForUser(id *user.ID) PresentPubliclySpecification {
	if id == nil {
		return PresentPubliclySpecification{}
	}
	v := *id
	return PresentPubliclySpecification{userID: &v}
}

// PresentPubliclyBoundaries carries the execution context.
type PresentPubliclyBoundaries struct {
	action.Boundaries
}

// PresentPubliclyBoundariesWith executes on rc.
func PresentPubliclyBoundariesWith(rc *appctx.RequestContext) PresentPubliclyBoundaries {
	return PresentPubliclyBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// PresentPubliclyResult holds the presented user, nil when none was
// specified.
type PresentPubliclyResult struct {
	User *user.Representation
}

// PresentPublicly resolves the optional user.
func (a *Actor) PresentPublicly(spec PresentPubliclySpecification, b PresentPubliclyBoundaries) (PresentPubliclyResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "PresentPublicly",
		func(_ context.Context, rc *appctx.RequestContext) (PresentPubliclyResult, error) {
			u, err := lookup.Subject(rc, a.deps.Users, spec.userID)
			if err != nil {
				return PresentPubliclyResult{}, action.Reference(err, ErrInvalidUser)
			}
			if u == nil {
				return PresentPubliclyResult{}, nil
			}
			rep := u.Represent()
			return PresentPubliclyResult{User: &rep}, nil
		})
}

// RequestWelcomeSpecification selects the signed-in user.
type RequestWelcomeSpecification struct {
	userID        user.ID
	listsSort     sorting.Spec
	favoritesSort sorting.Spec
}

// RequestWelcomeSpecificationForUser builds the welcome page of userID.
func RequestWelcomeSpecificationForUser(id user.ID) RequestWelcomeSpecification {
	return RequestWelcomeSpecification{userID: id}
}

// WithListsSorting orders the user's lists.
func (s RequestWelcomeSpecification) WithListsSorting(spec sorting.Spec) RequestWelcomeSpecification {
	s.listsSort = spec
	return s
}

// WithFavoritesSorting orders the user's favorites.
func (s RequestWelcomeSpecification) WithFavoritesSorting(spec sorting.Spec) RequestWelcomeSpecification {
	s.favoritesSort = spec
	return s
}

// RequestWelcomeBoundaries carries the execution context.
type RequestWelcomeBoundaries struct {
	action.Boundaries
}

// RequestWelcomeBoundariesWith executes on rc.
func RequestWelcomeBoundariesWith(rc *appctx.RequestContext) RequestWelcomeBoundaries {
	return RequestWelcomeBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// RequestWelcomeResult is the signed-in user with their lists, each with
// its item count, and their favorites.
type RequestWelcomeResult struct {
	User      user.Representation
	Lists     []list.Representation
	Favorites []favorite.Representation
}

// RequestWelcome loads the user, then builds lists and favorites
// concurrently. Either branch failing fails the action.
func (a *Actor) RequestWelcome(spec RequestWelcomeSpecification, b RequestWelcomeBoundaries) (RequestWelcomeResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "RequestWelcome",
		func(ctx context.Context, rc *appctx.RequestContext) (RequestWelcomeResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return RequestWelcomeResult{}, action.Reference(err, ErrInvalidUser)
			}

			res := RequestWelcomeResult{User: u.Represent()}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				lists, err := builders.NewListsBuilder(a.deps.Lists, a.deps.Items, a.deps.Workers).
					ForUser(u.ID).
					SortedBy(spec.listsSort).
					IncludeItemsCount(true).
					Build(gctx)
				res.Lists = lists
				return err
			})
			g.Go(func() error {
				favorites, err := builders.NewFavoritesBuilder(a.deps.Favorites, a.deps.Items, a.deps.Lists, a.deps.Users, a.deps.Workers).
					ForUser(u).
					SortedBy(spec.favoritesSort).
					Build(gctx, rc)
				res.Favorites = favorites
				return err
			})
			if err := g.Wait(); err != nil {
				return RequestWelcomeResult{}, err
			}
			return res, nil
		})
}
