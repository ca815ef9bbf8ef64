// Package reservation defines the Reservation entity: a user's claim on an
// item so that others do not buy it twice.
package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

// ID identifies a Reservation.
type ID uuid.UUID

// NewID returns a random ID.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a textual reservation ID.
func ParseID(s string) (ID, error) {
	u, err := domain.ParseUUID("reservation_id", s)
	return ID(u), err
}

// String implements fmt.Stringer.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// Reservation records that HolderID reserved ItemID. An item has at most
// one reservation.
type Reservation struct {
	ID        ID
	ItemID    item.ID
	HolderID  user.ID
	CreatedAt time.Time
}

// Validate checks business rules for the Reservation entity.
func (r *Reservation) Validate() error {
	fields := domain.Fields{}
	if r.ItemID.IsZero() {
		fields["item_id"] = domain.MsgRequired
	}
	if r.HolderID.IsZero() {
		fields["holder_id"] = domain.MsgRequired
	}
	return fields.Err()
}

// Representation is the serialization-safe projection of a Reservation.
type Representation struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemID"`
	HolderID  string    `json:"holderID"`
	CreatedAt time.Time `json:"createdAt"`
}

// Represent maps the reservation to its Representation.
func (r *Reservation) Represent() Representation {
	return Representation{
		ID:        r.ID.String(),
		ItemID:    r.ItemID.String(),
		HolderID:  r.HolderID.String(),
		CreatedAt: r.CreatedAt,
	}
}
