package access

import (
	"fmt"
	"strings"

	"github.com/edmw/wishlist-sub003/internal/domain"
)

// Visibility is the access policy attached to a Viewable entity.
type Visibility string

const (
	// Public entities are visible to everyone, including anonymous callers.
	Public Visibility = "public"
	// Users entities are visible to any authenticated user.
	Users Visibility = "users"
	// Friends entities are visible to the owner's friends. There is no
	// friendship graph yet, so this currently means owner only.
	Friends Visibility = "friends"
	// Private entities are visible to the owner only.
	Private Visibility = "private"
)

// Visibilities lists every defined visibility.
var Visibilities = []Visibility{Public, Users, Friends, Private}

// IsValid returns true if the visibility is one of the defined constants.
func (v Visibility) IsValid() bool {
	switch v {
	case Public, Users, Friends, Private:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (v Visibility) String() string {
	return string(v)
}

// ParseVisibility parses s case-insensitively.
func ParseVisibility(s string) (Visibility, error) {
	v := Visibility(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", domain.NewFieldError("visibility", fmt.Sprintf("invalid: %q", s))
	}
	return v, nil
}

// Viewable is implemented by entities whose access is governed by a
// Visibility.
type Viewable interface {
	AccessVisibility() Visibility
}

// Confidential is implemented by entities that are additionally restricted
// to confidants of their owner.
type Confidential interface {
	RestrictedToConfidants()
}
