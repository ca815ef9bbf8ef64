package wishlist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmw/wishlist-sub003/internal/adapters/memory"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/wishlist"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

type env struct {
	store  *memory.Store
	actor  *wishlist.Actor
	owner  *user.User
	guest  *user.User
	other  *user.User
	public *list.List
	users  *list.List
	item   *item.Item
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.New(nil)

	owner, err := store.Users.Create(ctx, &user.User{Identification: "owner"})
	require.NoError(t, err)
	guest, err := store.Users.Create(ctx, &user.User{Identification: "guest"})
	require.NoError(t, err)
	other, err := store.Users.Create(ctx, &user.User{Identification: "other"})
	require.NoError(t, err)

	public, err := store.Lists.Create(ctx, &list.List{Title: "birthday", Visibility: access.Public, OwnerID: owner.ID})
	require.NoError(t, err)
	users, err := store.Lists.Create(ctx, &list.List{Title: "wedding", Visibility: access.Users, OwnerID: owner.ID})
	require.NoError(t, err)
	it, err := store.Items.Create(ctx, &item.Item{Title: "Bike", ListID: users.ID})
	require.NoError(t, err)

	return &env{
		store: store,
		actor: wishlist.NewActor(wishlist.Deps{
			Users:        store.Users,
			Lists:        store.Lists,
			Items:        store.Items,
			Reservations: store.Reservations,
			Favorites:    store.Favorites,
		}),
		owner:  owner,
		guest:  guest,
		other:  other,
		public: public,
		users:  users,
		item:   it,
	}
}

func rc() *appctx.RequestContext { return appctx.New(context.Background()) }

func (e *env) reserve(t *testing.T, holder user.ID) {
	t.Helper()
	_, err := e.actor.AddReservationToItem(
		wishlist.ReservationSpecificationForUser(holder, e.item.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	require.NoError(t, err)
}

func TestPresentWishlist_Anonymous(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	res, err := e.actor.PresentWishlist(
		wishlist.PresentWishlistSpecificationForList(e.public.ID),
		wishlist.PresentWishlistBoundariesWith(rc()),
	)
	require.NoError(t, err)
	assert.Nil(t, res.User)
	assert.False(t, res.IsOwner)
	assert.Equal(t, e.owner.ID.String(), res.Owner.ID)
	assert.Equal(t, "birthday", res.List.Title)
	assert.Empty(t, res.Items)
}

func TestPresentWishlist_AnonymousNeedsAuthentication(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.actor.PresentWishlist(
		wishlist.PresentWishlistSpecificationForList(e.users.ID),
		wishlist.PresentWishlistBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, access.ErrAuthenticationRequired)
}

func TestPresentWishlist_PrivateList(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	private, err := e.store.Lists.Create(context.Background(), &list.List{Title: "secret", Visibility: access.Private, OwnerID: e.owner.ID})
	require.NoError(t, err)

	t.Run("non-owner", func(t *testing.T) {
		t.Parallel()
		_, err := e.actor.PresentWishlist(
			wishlist.PresentWishlistSpecificationForList(private.ID).ViewedBy(&e.guest.ID),
			wishlist.PresentWishlistBoundariesWith(rc()),
		)
		assert.True(t, errors.Is(err, access.ErrAccessibleForOwnerOnly), "error = %v", err)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		_, err := e.actor.PresentWishlist(
			wishlist.PresentWishlistSpecificationForList(private.ID),
			wishlist.PresentWishlistBoundariesWith(rc()),
		)
		assert.True(t, errors.Is(err, access.ErrAuthenticationRequired), "error = %v", err)
	})

	t.Run("owner", func(t *testing.T) {
		t.Parallel()
		res, err := e.actor.PresentWishlist(
			wishlist.PresentWishlistSpecificationForList(private.ID).ViewedBy(&e.owner.ID),
			wishlist.PresentWishlistBoundariesWith(rc()),
		)
		require.NoError(t, err)
		assert.True(t, res.IsOwner)
	})
}

func TestPresentWishlist_ShowsReservationToGuest(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.reserve(t, e.guest.ID)

	res, err := e.actor.PresentWishlist(
		wishlist.PresentWishlistSpecificationForList(e.users.ID).ViewedBy(&e.guest.ID),
		wishlist.PresentWishlistBoundariesWith(rc()),
	)
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, e.guest.ID.String(), res.User.ID)
	require.Len(t, res.Items, 1)
	require.NotNil(t, res.Items[0].IsReserved)
	assert.True(t, *res.Items[0].IsReserved)
	assert.True(t, *res.Items[0].IsReservedByMe)
	require.NotNil(t, res.Items[0].IsFavorite)
	assert.False(t, *res.Items[0].IsFavorite)
}

func TestPresentWishlist_UnknownList(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.actor.PresentWishlist(
		wishlist.PresentWishlistSpecificationForList(list.NewID()),
		wishlist.PresentWishlistBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, wishlist.ErrInvalidList)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPresentWishlist_UnknownViewer(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	unknown := user.NewID()

	_, err := e.actor.PresentWishlist(
		wishlist.PresentWishlistSpecificationForList(e.public.ID).ViewedBy(&unknown),
		wishlist.PresentWishlistBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, wishlist.ErrInvalidUser)
}

func TestAddReservationToItem(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	res, err := e.actor.AddReservationToItem(
		wishlist.ReservationSpecificationForUser(e.guest.ID, e.item.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	require.NoError(t, err)
	assert.Equal(t, e.guest.ID.String(), res.Reservation.HolderID)
	assert.Equal(t, e.item.ID.String(), res.Reservation.ItemID)
	assert.False(t, res.Reservation.CreatedAt.IsZero())

	stored, err := e.store.Reservations.FindByItem(context.Background(), e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, e.guest.ID, stored.HolderID)
}

func TestAddReservationToItem_AlreadyReserved(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.reserve(t, e.guest.ID)

	_, err := e.actor.AddReservationToItem(
		wishlist.ReservationSpecificationForUser(e.other.ID, e.item.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, wishlist.ErrItemAlreadyReserved)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAddReservationToItem_OwnItem(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.actor.AddReservationToItem(
		wishlist.ReservationSpecificationForUser(e.owner.ID, e.item.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, wishlist.ErrOwnItem)
}

func TestAddReservationToItem_PrivateList(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	private, err := e.store.Lists.Create(ctx, &list.List{Title: "secret", Visibility: access.Private, OwnerID: e.owner.ID})
	require.NoError(t, err)
	hidden, err := e.store.Items.Create(ctx, &item.Item{Title: "Ring", ListID: private.ID})
	require.NoError(t, err)

	_, err = e.actor.AddReservationToItem(
		wishlist.ReservationSpecificationForUser(e.guest.ID, hidden.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, access.ErrAccessibleForOwnerOnly)

	_, err = e.store.Reservations.FindByItem(context.Background(), hidden.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddReservationToItem_UnknownItem(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.actor.AddReservationToItem(
		wishlist.ReservationSpecificationForUser(e.guest.ID, item.NewID()),
		wishlist.ReservationBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, wishlist.ErrInvalidItem)
}

func TestRemoveReservationFromItem(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.reserve(t, e.guest.ID)

	res, err := e.actor.RemoveReservationFromItem(
		wishlist.ReservationSpecificationForUser(e.guest.ID, e.item.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	require.NoError(t, err)
	require.NotNil(t, res.Item.IsReserved)
	assert.False(t, *res.Item.IsReserved)

	_, err = e.store.Reservations.FindByItem(context.Background(), e.item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveReservationFromItem_NotHolder(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.reserve(t, e.guest.ID)

	_, err := e.actor.RemoveReservationFromItem(
		wishlist.ReservationSpecificationForUser(e.other.ID, e.item.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, access.ErrAccessibleForOwnerOnly)

	_, err = e.store.Reservations.FindByItem(context.Background(), e.item.ID)
	assert.NoError(t, err)
}

func TestRemoveReservationFromItem_NotReserved(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.actor.RemoveReservationFromItem(
		wishlist.ReservationSpecificationForUser(e.guest.ID, e.item.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, wishlist.ErrInvalidReservation)
}

func TestAddReservationToItem_WrongList(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.actor.AddReservationToItem(
		wishlist.ReservationSpecificationForUser(e.guest.ID, e.item.ID).OnList(e.public.ID),
		wishlist.ReservationBoundariesWith(rc()),
	)
	assert.ErrorIs(t, err, wishlist.ErrInvalidItem)
}
