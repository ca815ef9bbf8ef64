// Package lists implements the actions on a user's own lists.
package lists

import (
	"context"
	"fmt"

	"github.com/edmw/wishlist-sub003/internal/app/action"
	"github.com/edmw/wishlist-sub003/internal/app/builders"
	"github.com/edmw/wishlist-sub003/internal/app/items"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/lookup"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

const actorName = "lists"

// Reference errors.
var (
	ErrInvalidUser = &action.ReferenceError{Actor: actorName, Entity: "user"}
	ErrInvalidList = &action.ReferenceError{Actor: actorName, Entity: "list"}
)

// Event kinds.
const (
	EventListCreated = "list.created"
	EventListUpdated = "list.updated"
	EventListDeleted = "list.deleted"
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
	// Cleaner removes the images of items deleted with their list. Nil
	// keeps them.
	Cleaner *items.ImageCleaner
	Workers int
}

// Actor serves the list actions. It is safe for concurrent use.
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

// Values are the user-editable attributes of a list.
type Values struct {
	Title            string
	Visibility       access.Visibility
	ItemsSorting     *sorting.Spec
	MaskReservations bool
}

func (v Values) apply(l *list.List) {
	l.Title = v.Title
	l.Visibility = v.Visibility
	l.ItemsSorting = v.ItemsSorting
	l.Options.MaskReservations = v.MaskReservations
}

// RequestListsSpecification selects whose lists to return and how.
type RequestListsSpecification struct {
	userID      user.ID
	sort        sorting.Spec
	itemsCounts bool
}

// RequestListsSpecificationForUser requests the lists of userID.
func RequestListsSpecificationForUser(id user.ID) RequestListsSpecification {
	return RequestListsSpecification{userID: id}
}

// SortedBy orders the lists.
func (s RequestListsSpecification) SortedBy(spec sorting.Spec) RequestListsSpecification {
	s.sort = spec
	return s
}

// IncludingItemsCount adds the number of items to every list.
func (s RequestListsSpecification) IncludingItemsCount() RequestListsSpecification {
	s.itemsCounts = true
	return s
}

// RequestListsBoundaries carries the execution context.
type RequestListsBoundaries struct {
	action.Boundaries
}

// RequestListsBoundariesWith executes on rc.
func RequestListsBoundariesWith(rc *appctx.RequestContext) RequestListsBoundaries {
	return RequestListsBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// RequestListsResult holds the user and their lists.
type RequestListsResult struct {
	User  user.Representation
	Lists []list.Representation
}

// RequestLists returns the user's lists in the requested order.
func (a *Actor) RequestLists(spec RequestListsSpecification, b RequestListsBoundaries) (RequestListsResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "RequestLists",
		func(ctx context.Context, rc *appctx.RequestContext) (RequestListsResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return RequestListsResult{}, action.Reference(err, ErrInvalidUser)
			}
			reps, err := builders.NewListsBuilder(a.deps.Lists, a.deps.Items, a.deps.Workers).
				ForUser(u.ID).
				SortedBy(spec.sort).
				IncludeItemsCount(spec.itemsCounts).
				Build(ctx)
			if err != nil {
				return RequestListsResult{}, err
			}
			return RequestListsResult{User: u.Represent(), Lists: reps}, nil
		})
}

// ListResult holds the acting user and the list acted upon.
type ListResult struct {
	User user.Representation
	List list.Representation
}

// CreateListSpecification holds the attributes of the new list.
type CreateListSpecification struct {
	userID user.ID
	values Values
}

// CreateListSpecificationForUser creates a list owned by userID.
func CreateListSpecificationForUser(id user.ID, values Values) CreateListSpecification {
	return CreateListSpecification{userID: id, values: values}
}

// CreateListBoundaries carries the execution context.
type CreateListBoundaries struct {
	action.Boundaries
}

// CreateListBoundariesWith executes on rc.
func CreateListBoundariesWith(rc *appctx.RequestContext) CreateListBoundaries {
	return CreateListBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// CreateList validates and stores a new list.
func (a *Actor) CreateList(spec CreateListSpecification, b CreateListBoundaries) (ListResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "CreateList",
		func(ctx context.Context, rc *appctx.RequestContext) (ListResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return ListResult{}, action.Reference(err, ErrInvalidUser)
			}

			l := list.List{ID: list.NewID(), OwnerID: u.ID}
			spec.values.apply(&l)
			if err := l.Validate(); err != nil {
				return ListResult{}, err
			}

			created, err := action.Stage(rc, "create list "+l.ID.String(),
				func(ctx context.Context) (*list.List, error) { return a.deps.Lists.Create(ctx, &l) },
				func(ctx context.Context, c *list.List) error { return a.deps.Lists.Delete(ctx, c.ID) },
			)
			if err != nil {
				return ListResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{Kind: EventListCreated, SubjectID: u.ID.String(), EntityID: l.ID.String()})

			if err := rc.Commit(ctx); err != nil {
				return ListResult{}, fmt.Errorf("creating list: %w", err)
			}
			return ListResult{User: u.Represent(), List: created.Get().Represent()}, nil
		})
}

// ListSpecification addresses one list of the acting user.
type ListSpecification struct {
	userID user.ID
	listID list.ID
}

// UpdateListSpecification holds the new attributes of a list.
type UpdateListSpecification struct {
	ListSpecification
	values Values
}

// UpdateListSpecificationForUser updates listID on behalf of userID.
func UpdateListSpecificationForUser(userID user.ID, listID list.ID, values Values) UpdateListSpecification {
	return UpdateListSpecification{
		ListSpecification: ListSpecification{userID: userID, listID: listID},
		values:            values,
	}
}

// UpdateListBoundaries carries the execution context.
type UpdateListBoundaries struct {
	action.Boundaries
}

// UpdateListBoundariesWith executes on rc.
func UpdateListBoundariesWith(rc *appctx.RequestContext) UpdateListBoundaries {
	return UpdateListBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// UpdateList replaces the editable attributes of a list. Only the owner
// may update it.
func (a *Actor) UpdateList(spec UpdateListSpecification, b UpdateListBoundaries) (ListResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "UpdateList",
		func(ctx context.Context, rc *appctx.RequestContext) (ListResult, error) {
			auth, err := a.authorizeOwner(rc, spec.ListSpecification)
			if err != nil {
				return ListResult{}, err
			}

			previous := auth.Entity()
			l := previous
			spec.values.apply(&l)
			if err := l.Validate(); err != nil {
				return ListResult{}, err
			}

			var stored *list.List
			if err := stageUpdate(rc, l, domain.StepFunc{
				Desc: "update list " + l.ID.String(),
				Do: func(ctx context.Context) (err error) {
					stored, err = a.deps.Lists.Update(ctx, &l)
					return err
				},
				Undo: func(ctx context.Context) error {
					_, err := a.deps.Lists.Update(ctx, &previous)
					return err
				},
			}); err != nil {
				return ListResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{Kind: EventListUpdated, SubjectID: spec.userID.String(), EntityID: l.ID.String()})

			if err := rc.Commit(ctx); err != nil {
				return ListResult{}, fmt.Errorf("updating list: %w", err)
			}
			// The staged copy predates the stored modification time.
			rc.Forget(lookup.ListKey(l.ID))
			owner := auth.Owner()
			return ListResult{User: owner.Represent(), List: stored.Represent()}, nil
		})
}

// DeleteListSpecification addresses the list to delete.
type DeleteListSpecification struct {
	ListSpecification
}

// DeleteListSpecificationForUser deletes listID on behalf of userID.
func DeleteListSpecificationForUser(userID user.ID, listID list.ID) DeleteListSpecification {
	return DeleteListSpecification{ListSpecification{userID: userID, listID: listID}}
}

// DeleteListBoundaries carries the execution context.
type DeleteListBoundaries struct {
	action.Boundaries
}

// DeleteListBoundariesWith executes on rc.
func DeleteListBoundariesWith(rc *appctx.RequestContext) DeleteListBoundaries {
	return DeleteListBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// DeleteList deletes a list with its items and everything that refers to
// them. Only the owner may delete it.
func (a *Actor) DeleteList(spec DeleteListSpecification, b DeleteListBoundaries) (ListResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "DeleteList",
		func(ctx context.Context, rc *appctx.RequestContext) (ListResult, error) {
			auth, err := a.authorizeOwner(rc, spec.ListSpecification)
			if err != nil {
				return ListResult{}, err
			}
			l := auth.Entity()

			if err := a.stageCascade(ctx, rc, l); err != nil {
				return ListResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{Kind: EventListDeleted, SubjectID: spec.userID.String(), EntityID: l.ID.String()})

			owner := auth.Owner()
			return ListResult{User: owner.Represent(), List: l.Represent()}, nil
		})
}

// authorizeOwner resolves the acting user and the list and requires the
// user to own it.
func (a *Actor) authorizeOwner(rc *appctx.RequestContext, spec ListSpecification) (access.Authorization[list.List], error) {
	u, err := lookup.User(rc, a.deps.Users, spec.userID)
	if err != nil {
		return access.Authorization[list.List]{}, action.Reference(err, ErrInvalidUser)
	}
	l, err := lookup.List(rc, a.deps.Lists, spec.listID)
	if err != nil {
		return access.Authorization[list.List]{}, action.Reference(err, ErrInvalidList)
	}
	owner, err := lookup.User(rc, a.deps.Users, l.OwnerID)
	if err != nil {
		return access.Authorization[list.List]{}, action.Reference(err, ErrInvalidList)
	}
	return access.AuthorizeOwner(l, owner, &u)
}

// stageUpdate queues step and lets the rest of the action read l as the
// list's current state.
func stageUpdate(stager domain.WriteStager, l list.List, step domain.Step) error {
	return stager.Stage(lookup.ListKey(l.ID), l, step)
}
