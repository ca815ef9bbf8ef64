// Package favorite defines the Favorite entity: a user's bookmark of an item
// on someone else's list.
package favorite

import (
	"time"

	"github.com/google/uuid"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

// ID identifies a Favorite.
type ID uuid.UUID

// NewID returns a random ID.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a textual favorite ID.
func ParseID(s string) (ID, error) {
	u, err := domain.ParseUUID("favorite_id", s)
	return ID(u), err
}

// String implements fmt.Stringer.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID { return uuid.UUID(id) }

// Favorite marks an item as a favorite of its owner.
type Favorite struct {
	ID        ID
	OwnerID   user.ID
	ItemID    item.ID
	CreatedAt time.Time
}

// Validate checks business rules for the Favorite entity.
func (f *Favorite) Validate() error {
	fields := domain.Fields{}
	if f.OwnerID.IsZero() {
		fields["owner_id"] = domain.MsgRequired
	}
	if f.ItemID.IsZero() {
		fields["item_id"] = domain.MsgRequired
	}
	return fields.Err()
}

// Representation is the serialization-safe projection of a Favorite,
// resolved against its item, the item's list and the list's owner.
type Representation struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"createdAt"`
	Item      item.Representation       `json:"item"`
	List      list.Representation       `json:"list"`
	Owner     user.PublicRepresentation `json:"owner"`
}

// Represent maps the favorite and its resolved references to a
// Representation.
func (f *Favorite) Represent(it *item.Item, l *list.List, owner *user.User) Representation {
	return Representation{
		ID:        f.ID.String(),
		CreatedAt: f.CreatedAt,
		Item:      it.Represent(),
		List:      l.Represent(),
		Owner:     owner.RepresentPublicly(),
	}
}
