// Package access is the visibility-based authorization engine. Every
// function here is pure: no I/O, no shared state. A successful check yields
// an Authorization value, which is the only evidence callers may rely on
// before reading or mutating a protected entity.
package access

import "github.com/edmw/wishlist-sub003/internal/domain/user"

// Authorization proves that subject passed the access check for entity.
// It is produced only by this package and never persisted.
type Authorization[E any] struct {
	entity  E
	owner   user.User
	subject *user.User
}

// Entity returns the authorized entity.
func (a Authorization[E]) Entity() E { return a.entity }

// Owner returns the entity's owner.
func (a Authorization[E]) Owner() user.User { return a.owner }

// Subject returns the acting user, or nil for an anonymous caller.
func (a Authorization[E]) Subject() *user.User {
	if a.subject == nil {
		return nil
	}
	s := *a.subject
	return &s
}

// IsOwner reports whether the acting user owns the entity.
func (a Authorization[E]) IsOwner() bool {
	return a.subject != nil && a.subject.ID == a.owner.ID
}

// Authorize checks whether subject may access entity owned by owner. A nil
// subject is an unauthenticated caller. Viewable entities are checked
// against their visibility, Confidential entities against the confidant
// rule, and both must pass when an entity carries both traits. Entities with
// neither trait are accessible to their owner only.
func Authorize[E any](entity E, owner user.User, subject *user.User) (Authorization[E], error) {
	viewable, isViewable := any(entity).(Viewable)
	_, isConfidential := any(entity).(Confidential)

	if isViewable {
		if err := CheckVisibility(viewable.AccessVisibility(), owner, subject); err != nil {
			return Authorization[E]{}, err
		}
	}
	if isConfidential {
		if err := CheckConfidential(owner, subject); err != nil {
			return Authorization[E]{}, err
		}
	}
	if !isViewable && !isConfidential {
		if err := CheckOwnership(owner, subject); err != nil {
			return Authorization[E]{}, err
		}
	}
	return newAuthorization(entity, owner, subject), nil
}

// AuthorizeOwner checks that subject owns entity, whatever traits it has.
// Mutations use this: a public list is readable by anyone but writable only
// by its owner.
func AuthorizeOwner[E any](entity E, owner user.User, subject *user.User) (Authorization[E], error) {
	if err := CheckOwnership(owner, subject); err != nil {
		return Authorization[E]{}, err
	}
	if _, ok := any(entity).(Confidential); ok {
		if err := CheckConfidential(owner, subject); err != nil {
			return Authorization[E]{}, err
		}
	}
	return newAuthorization(entity, owner, subject), nil
}

func newAuthorization[E any](entity E, owner user.User, subject *user.User) Authorization[E] {
	a := Authorization[E]{entity: entity, owner: owner}
	if subject != nil {
		s := *subject
		a.subject = &s
	}
	return a
}

// CheckVisibility applies the visibility table. An unknown visibility is
// treated as private.
func CheckVisibility(v Visibility, owner user.User, subject *user.User) error {
	if v == Public {
		return nil
	}
	if subject == nil {
		return ErrAuthenticationRequired
	}
	if subject.ID == owner.ID {
		return nil
	}
	switch v {
	case Users:
		return nil
	case Friends:
		return ErrAccessibleForFriendsOnly
	default:
		return ErrAccessibleForOwnerOnly
	}
}

// CheckConfidential requires the subject to be the owner and flagged as a
// confidant. Any failure, including a missing subject, reports
// ErrAccessibleForConfidantsOnly.
func CheckConfidential(owner user.User, subject *user.User) error {
	if subject == nil || subject.ID != owner.ID || !subject.Confidant {
		return ErrAccessibleForConfidantsOnly
	}
	return nil
}

// CheckOwnership requires an authenticated subject that owns the entity.
func CheckOwnership(owner user.User, subject *user.User) error {
	if subject == nil {
		return ErrAuthenticationRequired
	}
	if subject.ID != owner.ID {
		return ErrAccessibleForOwnerOnly
	}
	return nil
}
