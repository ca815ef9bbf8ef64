package ports

import (
	"context"

	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/reservation"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

// All repositories must be safe for concurrent use. Find methods return
// domain.ErrNotFound when the entity does not exist; list methods return the
// entities in the requested sort order.

// UserRepository persists users.
type UserRepository interface {
	Find(ctx context.Context, id user.ID) (*user.User, error)
	FindByIdentification(ctx context.Context, identification string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
	Delete(ctx context.Context, id user.ID) error
}

// ListRepository persists lists.
type ListRepository interface {
	Find(ctx context.Context, id list.ID) (*list.List, error)
	ListByOwner(ctx context.Context, ownerID user.ID, sort sorting.Spec) ([]list.List, error)
	Create(ctx context.Context, l *list.List) (*list.List, error)
	Update(ctx context.Context, l *list.List) (*list.List, error)
	Delete(ctx context.Context, id list.ID) error
}

// ItemRepository persists items.
type ItemRepository interface {
	Find(ctx context.Context, id item.ID) (*item.Item, error)
	ListByList(ctx context.Context, listID list.ID, sort sorting.Spec) ([]item.Item, error)
	CountByList(ctx context.Context, listID list.ID) (int, error)
	Create(ctx context.Context, it *item.Item) (*item.Item, error)
	Update(ctx context.Context, it *item.Item) (*item.Item, error)
	Delete(ctx context.Context, id item.ID) error
}

// FavoriteRepository persists favorites.
type FavoriteRepository interface {
	Find(ctx context.Context, id favorite.ID) (*favorite.Favorite, error)
	FindByOwnerAndItem(ctx context.Context, ownerID user.ID, itemID item.ID) (*favorite.Favorite, error)
	ListByOwner(ctx context.Context, ownerID user.ID, sort sorting.Spec) ([]favorite.Favorite, error)
	ListByItem(ctx context.Context, itemID item.ID) ([]favorite.Favorite, error)
	Create(ctx context.Context, f *favorite.Favorite) (*favorite.Favorite, error)
	Delete(ctx context.Context, id favorite.ID) error
}

// ReservationRepository persists reservations.
type ReservationRepository interface {
	Find(ctx context.Context, id reservation.ID) (*reservation.Reservation, error)
	FindByItem(ctx context.Context, itemID item.ID) (*reservation.Reservation, error)
	// FindByItems returns the reservations of the given items keyed by item.
	// Items without a reservation are absent from the map.
	FindByItems(ctx context.Context, itemIDs []item.ID) (map[item.ID]reservation.Reservation, error)
	Create(ctx context.Context, r *reservation.Reservation) (*reservation.Reservation, error)
	Delete(ctx context.Context, id reservation.ID) error
}

// InvitationRepository persists invitations.
type InvitationRepository interface {
	Find(ctx context.Context, id invitation.ID) (*invitation.Invitation, error)
	FindByCode(ctx context.Context, code invitation.Code) (*invitation.Invitation, error)
	ListByIssuer(ctx context.Context, issuerID user.ID, sort sorting.Spec) ([]invitation.Invitation, error)
	Create(ctx context.Context, inv *invitation.Invitation) (*invitation.Invitation, error)
	Update(ctx context.Context, inv *invitation.Invitation) (*invitation.Invitation, error)
	Delete(ctx context.Context, id invitation.ID) error
}
