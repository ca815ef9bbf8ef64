// Package list defines the List entity: a titled, owned collection of items
// whose visibility decides who may see it.
package list

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

// MaxTitleLength bounds List.Title in characters.
const MaxTitleLength = 100

// ID identifies a List.
type ID uuid.UUID

// NewID returns a random ID.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a textual list ID.
func ParseID(s string) (ID, error) {
	u, err := domain.ParseUUID("list_id", s)
	return ID(u), err
}

// String implements fmt.Stringer.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID { return uuid.UUID(id) }

// Options are owner-controlled presentation switches.
type Options struct {
	// MaskReservations hides reservation state of items from the owner.
	MaskReservations bool
}

// List is a wishlist.
type List struct {
	ID           ID
	Title        string
	Visibility   access.Visibility
	OwnerID      user.ID
	ItemsSorting *sorting.Spec
	Options      Options
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

// AccessVisibility implements access.Viewable.
func (l List) AccessVisibility() access.Visibility { return l.Visibility }

var _ access.Viewable = List{}

// Validate checks business rules for the List entity.
func (l *List) Validate() error {
	fields := domain.Fields{}

	title := strings.TrimSpace(l.Title)
	if title == "" {
		fields["title"] = domain.MsgRequired
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		fields["title"] = domain.MsgTooLong
	}
	if !l.Visibility.IsValid() {
		fields["visibility"] = fmt.Sprintf("invalid: %q", l.Visibility)
	}
	if l.OwnerID.IsZero() {
		fields["owner_id"] = domain.MsgRequired
	}
	if l.ItemsSorting != nil && l.ItemsSorting.Direction != "" && !l.ItemsSorting.Direction.IsValid() {
		fields["items_sorting"] = fmt.Sprintf("invalid direction: %q", l.ItemsSorting.Direction)
	}

	return fields.Err()
}

// Representation is the serialization-safe projection of a List.
type Representation struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Visibility       string    `json:"visibility"`
	OwnerID          string    `json:"ownerID"`
	ItemsSorting     string    `json:"itemsSorting,omitempty"`
	MaskReservations bool      `json:"maskReservations"`
	ItemsCount       *int      `json:"itemsCount,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	ModifiedAt       time.Time `json:"modifiedAt"`
}

// Represent maps the list to its Representation.
func (l *List) Represent() Representation {
	rep := Representation{
		ID:               l.ID.String(),
		Title:            l.Title,
		Visibility:       l.Visibility.String(),
		OwnerID:          l.OwnerID.String(),
		MaskReservations: l.Options.MaskReservations,
		CreatedAt:        l.CreatedAt,
		ModifiedAt:       l.ModifiedAt,
	}
	if l.ItemsSorting != nil && l.ItemsSorting.Property != "" {
		rep.ItemsSorting = l.ItemsSorting.Property + ":" + l.ItemsSorting.Direction.String()
	}
	return rep
}

// WithItemsCount returns a copy of r carrying n as its item count.
func (r Representation) WithItemsCount(n int) Representation {
	r.ItemsCount = &n
	return r
}
