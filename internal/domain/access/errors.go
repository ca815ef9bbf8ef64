package access

import "github.com/edmw/wishlist-sub003/internal/domain"

// Reason is the closed set of authorization failure kinds.
type Reason string

const (
	ReasonAuthenticationRequired      Reason = "authenticationRequired"
	ReasonAccessibleForOwnerOnly      Reason = "accessibleForOwnerOnly"
	ReasonAccessibleForFriendsOnly    Reason = "accessibleForFriendsOnly"
	ReasonAccessibleForConfidantsOnly Reason = "accessibleForConfidantsOnly"
)

// Error is an authorization failure. Compare against the sentinel values
// with errors.Is; use errors.As to read the Reason.
type Error struct {
	Reason Reason
}

func (e *Error) Error() string {
	return "access denied: " + string(e.Reason)
}

// Unwrap maps the failure onto the generic domain kinds so boundary layers
// can tell unauthenticated from forbidden without knowing this package.
func (e *Error) Unwrap() error {
	if e.Reason == ReasonAuthenticationRequired {
		return domain.ErrUnauthenticated
	}
	return domain.ErrForbidden
}

// Sentinel authorization errors.
var (
	ErrAuthenticationRequired      = &Error{Reason: ReasonAuthenticationRequired}
	ErrAccessibleForOwnerOnly      = &Error{Reason: ReasonAccessibleForOwnerOnly}
	ErrAccessibleForFriendsOnly    = &Error{Reason: ReasonAccessibleForFriendsOnly}
	ErrAccessibleForConfidantsOnly = &Error{Reason: ReasonAccessibleForConfidantsOnly}
)
