package favorite

import (
	"errors"
	"testing"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

func TestFavorite_Validate(t *testing.T) {
	t.Parallel()

	f := Favorite{OwnerID: user.NewID(), ItemID: item.NewID()}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if err := (&Favorite{}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Validate() empty = %v, want ErrValidation", err)
	}
}

func TestFavorite_IsOwnerOnly(t *testing.T) {
	t.Parallel()

	owner := user.User{ID: user.NewID()}
	f := Favorite{ID: NewID(), OwnerID: owner.ID}

	if _, err := access.Authorize(f, owner, &user.User{ID: user.NewID()}); !errors.Is(err, access.ErrAccessibleForOwnerOnly) {
		t.Errorf("Authorize() stranger error = %v", err)
	}
}

func TestFavorite_Represent(t *testing.T) {
	t.Parallel()

	owner := &user.User{ID: user.NewID(), FullName: "Ada Lovelace", Email: "ada@example.com"}
	l := &list.List{ID: list.NewID(), Title: "Birthday", Visibility: access.Users, OwnerID: owner.ID}
	it := &item.Item{ID: item.NewID(), Title: "Book", ListID: l.ID}
	f := Favorite{ID: NewID(), OwnerID: user.NewID(), ItemID: it.ID}

	rep := f.Represent(it, l, owner)
	if rep.Item.ID != it.ID.String() || rep.List.ID != l.ID.String() || rep.Owner.DisplayName != "Ada Lovelace" {
		t.Errorf("Represent() = %+v", rep)
	}
}
