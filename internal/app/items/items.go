// Package items implements the actions on the items of a user's own lists.
package items

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
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

const actorName = "items"

// Reference errors.
var (
	ErrInvalidUser = &action.ReferenceError{Actor: actorName, Entity: "user"}
	ErrInvalidList = &action.ReferenceError{Actor: actorName, Entity: "list"}
	ErrInvalidItem = &action.ReferenceError{Actor: actorName, Entity: "item"}
)

// Event kinds.
const (
	EventItemCreated = "item.created"
	EventItemDeleted = "item.deleted"
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
	// Cleaner removes the images of deleted items. Nil keeps them.
	Cleaner *ImageCleaner
}

// Actor serves the item actions. It is safe for concurrent use.
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

// Values are the user-editable attributes of an item.
type Values struct {
	Title      string
	Text       string
	Preference item.Preference
	URL        string
	ImageURL   string
}

// ListSpecification addresses one list of the acting user.
type ListSpecification struct {
	userID user.ID
	listID list.ID
}

// RequestItemsSpecification selects the list and the item order.
type RequestItemsSpecification struct {
	ListSpecification
	sort *sorting.Spec
}

// RequestItemsSpecificationForUser requests the items of listID on behalf
// of its owner userID.
func RequestItemsSpecificationForUser(userID user.ID, listID list.ID) RequestItemsSpecification {
	return RequestItemsSpecification{ListSpecification: ListSpecification{userID: userID, listID: listID}}
}

// SortedBy overrides the list's own items order.
func (s RequestItemsSpecification) SortedBy(spec sorting.Spec) RequestItemsSpecification {
	s.sort = &spec
	return s
}

// RequestItemsBoundaries carries the execution context.
type RequestItemsBoundaries struct {
	action.Boundaries
}

// RequestItemsBoundariesWith executes on rc.
func RequestItemsBoundariesWith(rc *appctx.RequestContext) RequestItemsBoundaries {
	return RequestItemsBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// RequestItemsResult holds the owner, the list and its items.
type RequestItemsResult struct {
	User  user.Representation
	List  list.Representation
	Items []item.Representation
}

// RequestItems returns the items of one of the user's lists with their
// reservation state, masked when the list asks for it.
func (a *Actor) RequestItems(spec RequestItemsSpecification, b RequestItemsBoundaries) (RequestItemsResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "RequestItems",
		func(ctx context.Context, rc *appctx.RequestContext) (RequestItemsResult, error) {
			auth, err := a.authorizeList(rc, spec.ListSpecification)
			if err != nil {
				return RequestItemsResult{}, err
			}
			l, owner := auth.Entity(), auth.Owner()

			builder := builders.NewItemsBuilder(a.deps.Items, a.deps.Reservations, a.deps.Favorites).
				ForList(l).
				ViewedBy(&owner).
				IncludeReservations(true)
			if spec.sort != nil {
				builder = builder.SortedBy(*spec.sort)
			}
			reps, err := builder.Build(ctx)
			if err != nil {
				return RequestItemsResult{}, err
			}
			return RequestItemsResult{User: owner.Represent(), List: l.Represent(), Items: reps}, nil
		})
}

// ItemResult holds the acting user, the list and the item acted upon.
type ItemResult struct {
	User user.Representation
	List list.Representation
	Item item.Representation
}

// CreateItemSpecification holds the attributes of the new item.
type CreateItemSpecification struct {
	ListSpecification
	values Values
}

// CreateItemSpecificationForUser adds an item to listID on behalf of its
// owner userID.
func CreateItemSpecificationForUser(userID user.ID, listID list.ID, values Values) CreateItemSpecification {
	return CreateItemSpecification{
		ListSpecification: ListSpecification{userID: userID, listID: listID},
		values:            values,
	}
}

// CreateItemBoundaries carries the execution context and the image store
// used when the item has an image.
type CreateItemBoundaries struct {
	action.Boundaries
	images ports.ImageStoreProvider
}

// CreateItemBoundariesWith executes on rc and stores images in images,
// which may be nil when items are created without images.
func CreateItemBoundariesWith(rc *appctx.RequestContext, images ports.ImageStoreProvider) CreateItemBoundaries {
	return CreateItemBoundaries{Boundaries: action.BoundariesWith(rc), images: images}
}

// CreateItem validates and stores a new item. An image URL is fetched into
// the image store first; a failure creating the item removes the stored
// image again.
func (a *Actor) CreateItem(spec CreateItemSpecification, b CreateItemBoundaries) (ItemResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "CreateItem",
		func(ctx context.Context, rc *appctx.RequestContext) (ItemResult, error) {
			auth, err := a.authorizeList(rc, spec.ListSpecification)
			if err != nil {
				return ItemResult{}, err
			}
			l, owner := auth.Entity(), auth.Owner()

			it := item.Item{
				ID:         item.NewID(),
				Title:      spec.values.Title,
				Text:       spec.values.Text,
				Preference: spec.values.Preference,
				URL:        spec.values.URL,
				ImageURL:   spec.values.ImageURL,
				ListID:     l.ID,
			}
			if err := it.Validate(); err != nil {
				return ItemResult{}, err
			}

			var storedURL *appctx.Staged[string]
			if it.ImageURL != "" && b.images != nil {
				it.ImageKey = it.ID.String()
				storedURL, err = action.Stage(rc, "store image "+it.ImageKey,
					func(ctx context.Context) (string, error) { return b.images.StoreImage(ctx, it.ImageKey, it.ImageURL) },
					func(ctx context.Context, _ string) error { return b.images.RemoveImage(ctx, it.ImageKey) },
				)
				if err != nil {
					return ItemResult{}, err
				}
			}

			created, err := action.Stage(rc, "create item "+it.ID.String(),
				func(ctx context.Context) (*item.Item, error) {
					if storedURL != nil {
						it.ImageURL = storedURL.Get()
					}
					return a.deps.Items.Create(ctx, &it)
				},
				func(ctx context.Context, c *item.Item) error { return a.deps.Items.Delete(ctx, c.ID) },
			)
			if err != nil {
				return ItemResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:       EventItemCreated,
				SubjectID:  owner.ID.String(),
				EntityID:   it.ID.String(),
				Attributes: map[string]string{"list_id": l.ID.String()},
			})

			if err := rc.Commit(ctx); err != nil {
				return ItemResult{}, fmt.Errorf("creating item: %w", err)
			}
			return ItemResult{User: owner.Represent(), List: l.Represent(), Item: created.Get().Represent()}, nil
		})
}

// DeleteItemSpecification addresses the item to delete.
type DeleteItemSpecification struct {
	userID user.ID
	itemID item.ID
}

// DeleteItemSpecificationForUser deletes itemID on behalf of the owner of
// its list.
func DeleteItemSpecificationForUser(userID user.ID, itemID item.ID) DeleteItemSpecification {
	return DeleteItemSpecification{userID: userID, itemID: itemID}
}

// DeleteItemBoundaries carries the execution context.
type DeleteItemBoundaries struct {
	action.Boundaries
}

// DeleteItemBoundariesWith executes on rc.
func DeleteItemBoundariesWith(rc *appctx.RequestContext) DeleteItemBoundaries {
	return DeleteItemBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// DeleteItem deletes an item with its reservation and the favorites that
// refer to it. The stored image is removed after the deletions committed.
func (a *Actor) DeleteItem(spec DeleteItemSpecification, b DeleteItemBoundaries) (ItemResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "DeleteItem",
		func(ctx context.Context, rc *appctx.RequestContext) (ItemResult, error) {
			it, err := lookup.Item(rc, a.deps.Items, spec.itemID)
			if err != nil {
				return ItemResult{}, action.Reference(err, ErrInvalidItem)
			}
			auth, err := a.authorizeList(rc, ListSpecification{userID: spec.userID, listID: it.ListID})
			if err != nil {
				return ItemResult{}, err
			}
			l, owner := auth.Entity(), auth.Owner()

			if err := a.stageReferences(ctx, rc, it); err != nil {
				return ItemResult{}, err
			}
			if err := rc.AddStep(domain.StepFunc{
				Desc: "delete item " + it.ID.String(),
				Do:   func(ctx context.Context) error { return a.deps.Items.Delete(ctx, it.ID) },
				Undo: func(ctx context.Context) error {
					_, err := a.deps.Items.Create(ctx, &it)
					return err
				},
			}); err != nil {
				return ItemResult{}, err
			}
			if err := a.deps.Cleaner.Stage(rc, it); err != nil {
				return ItemResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:       EventItemDeleted,
				SubjectID:  owner.ID.String(),
				EntityID:   it.ID.String(),
				Attributes: map[string]string{"list_id": l.ID.String()},
			})

			return ItemResult{User: owner.Represent(), List: l.Represent(), Item: it.Represent()}, nil
		})
}

// stageReferences queues the deletion of the reservation and favorites on
// it, restoring them on rollback.
func (a *Actor) stageReferences(ctx context.Context, rc *appctx.RequestContext, it item.Item) error {
	var steps []domain.Step

	res, err := a.deps.Reservations.FindByItem(ctx, it.ID)
	switch {
	case err == nil:
		steps = append(steps, domain.StepFunc{
			Desc: "delete reservation " + res.ID.String(),
			Do:   func(ctx context.Context) error { return a.deps.Reservations.Delete(ctx, res.ID) },
			Undo: func(ctx context.Context) error {
				_, err := a.deps.Reservations.Create(ctx, res)
				return err
			},
		})
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("finding reservation: %w", err)
	}

	favorites, err := a.deps.Favorites.ListByItem(ctx, it.ID)
	if err != nil {
		return fmt.Errorf("listing favorites: %w", err)
	}
	for _, f := range favorites {
		steps = append(steps, domain.StepFunc{
			Desc: "delete favorite " + f.ID.String(),
			Do:   func(ctx context.Context) error { return a.deps.Favorites.Delete(ctx, f.ID) },
			Undo: func(ctx context.Context) error {
				_, err := a.deps.Favorites.Create(ctx, &f)
				return err
			},
		})
	}

	if len(steps) == 0 {
		return nil
	}
	return rc.AddGroup(steps...)
}

// authorizeList resolves the acting user and the list and requires the
// user to own it.
func (a *Actor) authorizeList(rc *appctx.RequestContext, spec ListSpecification) (access.Authorization[list.List], error) {
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
