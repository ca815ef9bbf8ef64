package dto

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/edmw/wishlist-sub003/internal/app/items"
	"github.com/edmw/wishlist-sub003/internal/app/lists"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
)

// Query parameters selecting the order of returned collections.
const (
	QuerySort  = "sort"
	QueryOrder = "order"
)

// SortTable is the part of a sorting.Table the request layer needs.
type SortTable interface {
	Has(name string) bool
	Names() []string
}

// CreateListRequest represents the JSON body for creating a new list.
// ItemsSorting has the form "property" or "property:direction".
type CreateListRequest struct {
	Title            string `json:"title"`
	Visibility       string `json:"visibility"`
	ItemsSorting     string `json:"itemsSorting,omitempty"`
	MaskReservations bool   `json:"maskReservations"`
}

// Validate checks the request shape. Business rules are checked again by
// the list entity.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateListRequest) Validate() error {
	fields := domain.Fields{}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		fields["title"] = domain.MsgRequired
	} else if utf8.RuneCountInString(title) > list.MaxTitleLength {
		fields["title"] = domain.MsgTooLong
	}
	if strings.TrimSpace(r.Visibility) == "" {
		fields["visibility"] = domain.MsgRequired
	} else if _, err := access.ParseVisibility(r.Visibility); err != nil {
		fields["visibility"] = fmt.Sprintf("invalid: %q", r.Visibility)
	}
	if r.ItemsSorting != "" {
		if _, err := parseSorting(r.ItemsSorting, item.SortTable); err != nil {
			fields["itemsSorting"] = err.Error()
		}
	}

	return fields.Err()
}

// UpdateListRequest represents the JSON body replacing the attributes of a
// list. It carries the same fields as CreateListRequest.
type UpdateListRequest struct {
	CreateListRequest
}

// Values maps a validated request to the list attributes.
func (r *CreateListRequest) Values() lists.Values {
	v := lists.Values{
		Title:            strings.TrimSpace(r.Title),
		MaskReservations: r.MaskReservations,
	}
	v.Visibility, _ = access.ParseVisibility(r.Visibility)
	if r.ItemsSorting != "" {
		if spec, err := parseSorting(r.ItemsSorting, item.SortTable); err == nil {
			v.ItemsSorting = &spec
		}
	}
	return v
}

// SortFromQuery reads the sort and order query parameters. An absent sort
// parameter yields the zero Spec, the default order. A property not in
// table is rejected.
func SortFromQuery(q url.Values, table SortTable) (sorting.Spec, error) {
	property := strings.TrimSpace(q.Get(QuerySort))
	if property == "" {
		return sorting.Spec{}, nil
	}
	if !table.Has(property) {
		return sorting.Spec{}, domain.NewFieldError("query."+QuerySort,
			fmt.Sprintf("must be one of %s", strings.Join(table.Names(), ", ")))
	}
	return sorting.Spec{Property: property, Direction: sorting.ParseDirection(q.Get(QueryOrder))}, nil
}

// parseSorting parses "property[:direction]".
func parseSorting(s string, table SortTable) (sorting.Spec, error) {
	property, direction, _ := strings.Cut(strings.TrimSpace(s), ":")
	if !table.Has(property) {
		return sorting.Spec{}, fmt.Errorf("unknown property %q", property)
	}
	return sorting.Spec{Property: property, Direction: sorting.ParseDirection(direction)}, nil
}

// CreateItemRequest represents the JSON body for adding an item to a list.
// Preference is one of the preference names, normal when empty.
type CreateItemRequest struct {
	Title      string `json:"title"`
	Text       string `json:"text,omitempty"`
	Preference string `json:"preference,omitempty"`
	URL        string `json:"url,omitempty"`
	ImageURL   string `json:"imageURL,omitempty"`
}

// Validate checks the request shape.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateItemRequest) Validate() error {
	fields := domain.Fields{}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		fields["title"] = domain.MsgRequired
	} else if utf8.RuneCountInString(title) > item.MaxTitleLength {
		fields["title"] = domain.MsgTooLong
	}
	if utf8.RuneCountInString(r.Text) > item.MaxTextLength {
		fields["text"] = domain.MsgTooLong
	}
	if r.Preference != "" {
		if _, err := item.ParsePreference(r.Preference); err != nil {
			fields["preference"] = fmt.Sprintf("invalid: %q", r.Preference)
		}
	}
	for field, raw := range map[string]string{"url": r.URL, "imageURL": r.ImageURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields[field] = "must be an absolute http(s) URL"
		}
	}

	return fields.Err()
}

// Values converts a validated request to the item attributes.
func (r *CreateItemRequest) Values() items.Values {
	v := items.Values{
		Title:    strings.TrimSpace(r.Title),
		Text:     r.Text,
		URL:      r.URL,
		ImageURL: r.ImageURL,
	}
	if r.Preference != "" {
		v.Preference, _ = item.ParsePreference(r.Preference)
	}
	return v
}

// CreateInvitationRequest represents the JSON body for inviting someone.
type CreateInvitationRequest struct {
	Email string `json:"email"`
}

// Validate checks that an address is present. Its syntax is checked by
// the invitation entity.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateInvitationRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.NewFieldError("email", domain.MsgRequired)
	}
	return nil
}
