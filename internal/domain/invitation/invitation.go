// Package invitation defines the Invitation entity. Invitations let a
// confidant bring new users onto the platform and are themselves
// confidential.
package invitation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

// ID identifies an Invitation.
type ID uuid.UUID

// NewID returns a random ID.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a textual invitation ID.
func ParseID(s string) (ID, error) {
	u, err := domain.ParseUUID("invitation_id", s)
	return ID(u), err
}

// String implements fmt.Stringer.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID { return uuid.UUID(id) }

// Status is the lifecycle state of an Invitation.
type Status string

const (
	StatusOpen     Status = "open"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusAccepted, StatusRevoked:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Invitation is an invitation code issued by a user for an email address.
type Invitation struct {
	ID        ID
	Code      Code
	Status    Status
	Email     string
	SentAt    *time.Time
	IssuerID  user.ID
	InviteeID *user.ID
	CreatedAt time.Time
}

// RestrictedToConfidants implements access.Confidential.
func (Invitation) RestrictedToConfidants() {}

var _ access.Confidential = Invitation{}

// Validate checks business rules for the Invitation entity.
func (i *Invitation) Validate() error {
	fields := domain.Fields{}

	if !i.Code.IsValid() {
		fields["code"] = "must be a valid invitation code"
	}
	if !i.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", i.Status)
	}
	if strings.TrimSpace(i.Email) == "" {
		fields["email"] = domain.MsgRequired
	} else if _, err := mail.ParseAddress(i.Email); err != nil {
		fields["email"] = "must be a valid address"
	}
	if i.IssuerID.IsZero() {
		fields["issuer_id"] = domain.MsgRequired
	}

	return fields.Err()
}

// Representation is the serialization-safe projection of an Invitation.
type Representation struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	Email     string     `json:"email"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	IssuerID  string     `json:"issuerID"`
	InviteeID string     `json:"inviteeID,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Represent maps the invitation to its Representation.
func (i *Invitation) Represent() Representation {
	rep := Representation{
		ID:        i.ID.String(),
		Code:      i.Code.String(),
		Status:    i.Status.String(),
		Email:     i.Email,
		SentAt:    i.SentAt,
		IssuerID:  i.IssuerID.String(),
		CreatedAt: i.CreatedAt,
	}
	if i.InviteeID != nil {
		rep.InviteeID = i.InviteeID.String()
	}
	return rep
}
