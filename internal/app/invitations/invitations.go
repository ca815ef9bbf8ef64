// Package invitations implements the actions confidants use to invite new
// users.
package invitations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edmw/wishlist-sub003/internal/app/action"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/lookup"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

const actorName = "invitations"

// codeAttempts bounds the retries after a code collision.
const codeAttempts = 3

// Reference errors.
var (
	ErrInvalidUser       = &action.ReferenceError{Actor: actorName, Entity: "user"}
	ErrInvalidInvitation = &action.ReferenceError{Actor: actorName, Entity: "invitation"}
)

// ErrInvitationNotOpen is returned when revoking an invitation that was
// accepted or revoked already.
var ErrInvitationNotOpen = fmt.Errorf("%s: invitation is not open: %w", actorName, domain.ErrConflict)

// Event kinds.
const (
	EventInvitationCreated = "invitation.created"
	EventInvitationSent    = "invitation.sent"
	EventInvitationRevoked = "invitation.revoked"
)

// Deps are the repositories and shared services of the Actor.
type Deps struct {
	Users       ports.UserRepository
	Invitations ports.InvitationRepository
	Performer   *action.Performer
	Recorder    *action.Recorder
	CodeLength  int
	Now         func() time.Time
}

// Actor serves the invitation actions. It is safe for concurrent use.
type Actor struct {
	deps Deps
}

// NewActor creates an Actor.
func NewActor(deps Deps) *Actor {
	if deps.Performer == nil {
		deps.Performer = action.NewPerformer(nil)
	}
	if deps.CodeLength == 0 {
		deps.CodeLength = invitation.DefaultCodeLength
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Actor{deps: deps}
}

// RequestInvitationsSpecification selects whose invitations to return.
type RequestInvitationsSpecification struct {
	userID user.ID
	sort   sorting.Spec
}

// RequestInvitationsSpecificationForUser requests the invitations issued by
// userID.
func RequestInvitationsSpecificationForUser(id user.ID) RequestInvitationsSpecification {
	return RequestInvitationsSpecification{userID: id}
}

// SortedBy orders the invitations.
func (s RequestInvitationsSpecification) SortedBy(spec sorting.Spec) RequestInvitationsSpecification {
	s.sort = spec
	return s
}

// RequestInvitationsBoundaries carries the execution context.
type RequestInvitationsBoundaries struct {
	action.Boundaries
}

// RequestInvitationsBoundariesWith executes on rc.
func RequestInvitationsBoundariesWith(rc *appctx.RequestContext) RequestInvitationsBoundaries {
	return RequestInvitationsBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// RequestInvitationsResult holds the issuer and their invitations.
type RequestInvitationsResult struct {
	User        user.Representation
	Invitations []invitation.Representation
}

// RequestInvitations returns the invitations the user issued. Only
// confidants may see invitations.
func (a *Actor) RequestInvitations(spec RequestInvitationsSpecification, b RequestInvitationsBoundaries) (RequestInvitationsResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "RequestInvitations",
		func(ctx context.Context, rc *appctx.RequestContext) (RequestInvitationsResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return RequestInvitationsResult{}, action.Reference(err, ErrInvalidUser)
			}
			if err := access.CheckConfidential(u, &u); err != nil {
				return RequestInvitationsResult{}, err
			}

			order := invitation.SortTable.ResolveSpec(spec.sort)
			invs, err := a.deps.Invitations.ListByIssuer(ctx, u.ID, order.Spec())
			if err != nil {
				return RequestInvitationsResult{}, fmt.Errorf("listing invitations: %w", err)
			}
			order.Sort(invs)

			reps := make([]invitation.Representation, len(invs))
			for i := range invs {
				reps[i] = invs[i].Represent()
			}
			return RequestInvitationsResult{User: u.Represent(), Invitations: reps}, nil
		})
}

// InvitationResult holds the issuer and the invitation acted upon.
type InvitationResult struct {
	User       user.Representation
	Invitation invitation.Representation
}

// CreateInvitationSpecification holds the address to invite.
type CreateInvitationSpecification struct {
	userID user.ID
	email  string
}

// CreateInvitationSpecificationForUser invites email on behalf of userID.
func CreateInvitationSpecificationForUser(id user.ID, email string) CreateInvitationSpecification {
	return CreateInvitationSpecification{userID: id, email: email}
}

// CreateInvitationBoundaries carries the execution context and the email
// provider used to send the invitation.
type CreateInvitationBoundaries struct {
	action.Boundaries
	email ports.EmailSendingProvider
}

// CreateInvitationBoundariesWith executes on rc and sends the invitation
// through email. A nil provider creates the invitation without sending it.
func CreateInvitationBoundariesWith(rc *appctx.RequestContext, email ports.EmailSendingProvider) CreateInvitationBoundaries {
	return CreateInvitationBoundaries{Boundaries: action.BoundariesWith(rc), email: email}
}

// CreateInvitation issues an invitation with a fresh code and sends it when
// an email provider is given. A failed send removes the invitation again.
func (a *Actor) CreateInvitation(spec CreateInvitationSpecification, b CreateInvitationBoundaries) (InvitationResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "CreateInvitation",
		func(ctx context.Context, rc *appctx.RequestContext) (InvitationResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return InvitationResult{}, action.Reference(err, ErrInvalidUser)
			}

			code, err := invitation.NewCode(a.deps.CodeLength)
			if err != nil {
				return InvitationResult{}, err
			}
			inv := invitation.Invitation{
				ID:       invitation.NewID(),
				Code:     code,
				Status:   invitation.StatusOpen,
				Email:    spec.email,
				IssuerID: u.ID,
			}
			if _, err := access.AuthorizeOwner(inv, u, &u); err != nil {
				return InvitationResult{}, err
			}
			if err := inv.Validate(); err != nil {
				return InvitationResult{}, err
			}

			created, err := action.Stage(rc, "create invitation "+inv.ID.String(),
				func(ctx context.Context) (*invitation.Invitation, error) { return a.create(ctx, inv) },
				func(ctx context.Context, c *invitation.Invitation) error { return a.deps.Invitations.Delete(ctx, c.ID) },
			)
			if err != nil {
				return InvitationResult{}, err
			}
			if b.email != nil {
				if err := a.stageSend(ctx, rc, b.email, u, inv.ID, created); err != nil {
					return InvitationResult{}, err
				}
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:      EventInvitationCreated,
				SubjectID: u.ID.String(),
				EntityID:  inv.ID.String(),
			})

			if err := rc.Commit(ctx); err != nil {
				return InvitationResult{}, fmt.Errorf("creating invitation: %w", err)
			}
			return InvitationResult{User: u.Represent(), Invitation: created.Get().Represent()}, nil
		})
}

// create stores inv, drawing a new code when the current one is taken.
func (a *Actor) create(ctx context.Context, inv invitation.Invitation) (*invitation.Invitation, error) {
	for attempt := 1; ; attempt++ {
		c, err := a.deps.Invitations.Create(ctx, &inv)
		if err == nil || !errors.Is(err, domain.ErrConflict) || attempt == codeAttempts {
			return c, err
		}
		logging.FromContext(ctx).DebugContext(ctx, "invitation code taken, retrying",
			slog.Int("attempt", attempt),
		)
		if inv.Code, err = invitation.NewCode(a.deps.CodeLength); err != nil {
			return nil, err
		}
	}
}

// stageSend queues sending the created invitation and recording when it was
// sent. The send has no undo; a failure rolls back the creation.
func (a *Actor) stageSend(ctx context.Context, rc *appctx.RequestContext, email ports.EmailSendingProvider, issuer user.User, id invitation.ID, created *appctx.Staged[*invitation.Invitation]) error {
	sent, err := action.Stage(rc, "send invitation",
		func(ctx context.Context) (*ports.EmailSendResult, error) {
			res, err := email.SendInvitation(ctx, created.Get().Represent(), issuer.RepresentPublicly())
			if err != nil {
				return nil, fmt.Errorf("sending invitation: %w", err)
			}
			return res, nil
		},
		nil,
	)
	if err != nil {
		return err
	}

	if err := rc.AddStep(domain.StepFunc{
		Desc: "mark invitation sent",
		Do: func(ctx context.Context) error {
			inv := *created.Get()
			at := a.deps.Now()
			if res := sent.Get(); res != nil && !res.SentAt.IsZero() {
				at = res.SentAt
			}
			inv.SentAt = &at
			updated, err := a.deps.Invitations.Update(ctx, &inv)
			if err != nil {
				return err
			}
			created.Set(updated)
			return nil
		},
	}); err != nil {
		return err
	}

	a.deps.Recorder.Event(ctx, rc, ports.Event{
		Kind:      EventInvitationSent,
		SubjectID: issuer.ID.String(),
		EntityID:  id.String(),
	})
	a.deps.Recorder.Message(ctx, rc, ports.Message{
		Text: "invitation sent",
		Attributes: map[string]string{
			"issuer_id":     issuer.ID.String(),
			"invitation_id": id.String(),
		},
	})
	return nil
}

// RevokeInvitationSpecification addresses the invitation to revoke.
type RevokeInvitationSpecification struct {
	userID       user.ID
	invitationID invitation.ID
}

// RevokeInvitationSpecificationForUser revokes invitationID on behalf of
// its issuer userID.
func RevokeInvitationSpecificationForUser(userID user.ID, invitationID invitation.ID) RevokeInvitationSpecification {
	return RevokeInvitationSpecification{userID: userID, invitationID: invitationID}
}

// RevokeInvitationBoundaries carries the execution context.
type RevokeInvitationBoundaries struct {
	action.Boundaries
}

// RevokeInvitationBoundariesWith executes on rc.
func RevokeInvitationBoundariesWith(rc *appctx.RequestContext) RevokeInvitationBoundaries {
	return RevokeInvitationBoundaries{Boundaries: action.BoundariesWith(rc)}
}

// RevokeInvitation marks an open invitation as revoked.
func (a *Actor) RevokeInvitation(spec RevokeInvitationSpecification, b RevokeInvitationBoundaries) (InvitationResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "RevokeInvitation",
		func(ctx context.Context, rc *appctx.RequestContext) (InvitationResult, error) {
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return InvitationResult{}, action.Reference(err, ErrInvalidUser)
			}
			inv, err := a.deps.Invitations.Find(ctx, spec.invitationID)
			if err != nil {
				return InvitationResult{}, action.Reference(err, ErrInvalidInvitation)
			}
			issuer, err := lookup.User(rc, a.deps.Users, inv.IssuerID)
			if err != nil {
				return InvitationResult{}, action.Reference(err, ErrInvalidInvitation)
			}
			if _, err := access.AuthorizeOwner(*inv, issuer, &u); err != nil {
				return InvitationResult{}, err
			}
			if inv.Status != invitation.StatusOpen {
				return InvitationResult{}, ErrInvitationNotOpen
			}

			previous := *inv
			revoked := *inv
			revoked.Status = invitation.StatusRevoked
			if err := rc.AddStep(domain.StepFunc{
				Desc: "revoke invitation " + inv.ID.String(),
				Do: func(ctx context.Context) error {
					_, err := a.deps.Invitations.Update(ctx, &revoked)
					return err
				},
				Undo: func(ctx context.Context) error {
					_, err := a.deps.Invitations.Update(ctx, &previous)
					return err
				},
			}); err != nil {
				return InvitationResult{}, err
			}
			a.deps.Recorder.Event(ctx, rc, ports.Event{
				Kind:      EventInvitationRevoked,
				SubjectID: u.ID.String(),
				EntityID:  inv.ID.String(),
			})

			return InvitationResult{User: u.Represent(), Invitation: revoked.Represent()}, nil
		})
}
