// Package item defines the Item entity: a single wish on a list.
package item

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
)

// Field limits in characters.
const (
	MaxTitleLength = 100
	MaxTextLength  = 2000
)

// ID identifies an Item.
type ID uuid.UUID

// NewID returns a random ID.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a textual item ID.
func ParseID(s string) (ID, error) {
	u, err := domain.ParseUUID("item_id", s)
	return ID(u), err
}

// String implements fmt.Stringer.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID { return uuid.UUID(id) }

// Preference is how much the owner wants an item.
type Preference int

const (
	PreferenceLowest  Preference = -2
	PreferenceLow     Preference = -1
	PreferenceNormal  Preference = 0
	PreferenceHigh    Preference = 1
	PreferenceHighest Preference = 2
)

// IsValid returns true if the preference is one of the defined constants.
func (p Preference) IsValid() bool {
	return p >= PreferenceLowest && p <= PreferenceHighest
}

// String implements fmt.Stringer.
func (p Preference) String() string {
	switch p {
	case PreferenceLowest:
		return "lowest"
	case PreferenceLow:
		return "low"
	case PreferenceNormal:
		return "normal"
	case PreferenceHigh:
		return "high"
	case PreferenceHighest:
		return "highest"
	default:
		return fmt.Sprintf("preference(%d)", int(p))
	}
}

// ParsePreference parses the textual form produced by String.
func ParsePreference(s string) (Preference, error) {
	for p := PreferenceLowest; p <= PreferenceHighest; p++ {
		if p.String() == strings.ToLower(strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return PreferenceNormal, domain.NewFieldError("preference", fmt.Sprintf("invalid: %q", s))
}

// Item is a wish on a list. ImageKey names the stored image blob, if any.
type Item struct {
	ID         ID
	Title      string
	Text       string
	Preference Preference
	URL        string
	ImageURL   string
	ImageKey   string
	ListID     list.ID
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// HasImage reports whether an image blob is stored for the item.
func (i *Item) HasImage() bool { return i.ImageKey != "" }

// Validate checks business rules for the Item entity.
func (i *Item) Validate() error {
	fields := domain.Fields{}

	title := strings.TrimSpace(i.Title)
	if title == "" {
		fields["title"] = domain.MsgRequired
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		fields["title"] = domain.MsgTooLong
	}
	if utf8.RuneCountInString(i.Text) > MaxTextLength {
		fields["text"] = domain.MsgTooLong
	}
	if !i.Preference.IsValid() {
		fields["preference"] = fmt.Sprintf("must be %d..%d, got %d", PreferenceLowest, PreferenceHighest, i.Preference)
	}
	if i.URL != "" && !isHTTPURL(i.URL) {
		fields["url"] = "must be an http(s) URL"
	}
	if i.ImageURL != "" && !isHTTPURL(i.ImageURL) {
		fields["image_url"] = "must be an http(s) URL"
	}
	if i.ListID.IsZero() {
		fields["list_id"] = domain.MsgRequired
	}

	return fields.Err()
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Representation is the serialization-safe projection of an Item.
// Reservation and favorite state are filled in by representation builders
// when the caller is entitled to see them.
type Representation struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Text           string    `json:"text,omitempty"`
	Preference     string    `json:"preference"`
	URL            string    `json:"url,omitempty"`
	ImageURL       string    `json:"imageURL,omitempty"`
	HasImage       bool      `json:"hasImage"`
	ListID         string    `json:"listID"`
	CreatedAt      time.Time `json:"createdAt"`
	ModifiedAt     time.Time `json:"modifiedAt"`
	IsReserved     *bool     `json:"isReserved,omitempty"`
	IsReservedByMe *bool     `json:"isReservedByMe,omitempty"`
	IsFavorite     *bool     `json:"isFavorite,omitempty"`
}

// Represent maps the item to its Representation.
func (i *Item) Represent() Representation {
	return Representation{
		ID:         i.ID.String(),
		Title:      i.Title,
		Text:       i.Text,
		Preference: i.Preference.String(),
		URL:        i.URL,
		ImageURL:   i.ImageURL,
		HasImage:   i.HasImage(),
		ListID:     i.ListID.String(),
		CreatedAt:  i.CreatedAt,
		ModifiedAt: i.ModifiedAt,
	}
}

// WithReservation returns a copy of r carrying reservation state.
func (r Representation) WithReservation(reserved, byMe bool) Representation {
	r.IsReserved = &reserved
	r.IsReservedByMe = &byMe
	return r
}

// WithFavorite returns a copy of r carrying favorite state.
func (r Representation) WithFavorite(favorite bool) Representation {
	r.IsFavorite = &favorite
	return r
}
