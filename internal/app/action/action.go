// Package action is the execution contract shared by every actor.
//
// An action is a named use case with three parts: a Specification holding
// the caller's inputs, Boundaries holding the per-call execution handle and
// any providers only that call needs, and a Result. Actors are constructed
// once with their repositories and expose one method per action:
//
//	res, err := actor.RequestLists(
//		lists.RequestListsSpecificationForUser(userID),
//		lists.RequestListsBoundariesWith(rc),
//	)
//
// Actor methods run their body through Perform, which opens a span, records
// metrics, logs the outcome and commits steps the body staged on the
// request context.
package action

import (
	"errors"
	"fmt"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/domain"
)

// Name identifies an action in spans, metrics and logs.
type Name string

func (n Name) String() string { return string(n) }

// ErrNoExecutionContext is returned when an action is invoked with
// Boundaries that carry no request context.
var ErrNoExecutionContext = errors.New("action: boundaries carry no request context")

// Boundaries is the execution handle of one action invocation. Actor
// packages embed it in their per-action boundaries types.
type Boundaries struct {
	rc *appctx.RequestContext
}

// BoundariesWith returns Boundaries executing on rc.
func BoundariesWith(rc *appctx.RequestContext) Boundaries {
	return Boundaries{rc: rc}
}

// RequestContext returns the execution handle, or nil for zero Boundaries.
func (b Boundaries) RequestContext() *appctx.RequestContext { return b.rc }

// ReferenceError reports that a specification refers to an entity that
// does not exist. Each actor declares its own sentinel values, so
// lists.ErrInvalidUser and wishlist.ErrInvalidUser are different errors;
// both unwrap to domain.ErrNotFound.
type ReferenceError struct {
	Actor  string
	Entity string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: invalid %s", e.Actor, e.Entity)
}

func (e *ReferenceError) Unwrap() error { return domain.ErrNotFound }

// Reference translates a repository lookup error. A missing entity becomes
// ref; any other error is wrapped with the entity kind.
func Reference(err error, ref *ReferenceError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return ref
	}
	return fmt.Errorf("finding %s: %w", ref.Entity, err)
}
