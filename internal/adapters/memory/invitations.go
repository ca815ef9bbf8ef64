package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var _ ports.InvitationRepository = (*InvitationRepository)(nil)

// InvitationRepository stores invitations. Codes are unique.
type InvitationRepository struct {
	rows *table[invitation.ID, invitation.Invitation]
	now  Clock
}

// NewInvitationRepository creates an empty InvitationRepository.
func NewInvitationRepository(now Clock) *InvitationRepository {
	if now == nil {
		now = time.Now
	}
	return &InvitationRepository{rows: newTable[invitation.ID, invitation.Invitation](), now: now}
}

// Find returns the invitation with the given ID.
func (r *InvitationRepository) Find(_ context.Context, id invitation.ID) (*invitation.Invitation, error) {
	inv, ok := r.rows.get(id)
	if !ok {
		return nil, fmt.Errorf("invitation %s: %w", id, domain.ErrNotFound)
	}
	return &inv, nil
}

// FindByCode returns the invitation carrying code.
func (r *InvitationRepository) FindByCode(_ context.Context, code invitation.Code) (*invitation.Invitation, error) {
	inv, ok := r.rows.find(func(inv invitation.Invitation) bool { return inv.Code == code })
	if !ok {
		return nil, fmt.Errorf("invitation code %s: %w", code, domain.ErrNotFound)
	}
	return &inv, nil
}

// ListByIssuer returns the invitations issued by issuerID in the requested
// order.
func (r *InvitationRepository) ListByIssuer(_ context.Context, issuerID user.ID, sort sorting.Spec) ([]invitation.Invitation, error) {
	invitations := r.rows.filter(func(inv invitation.Invitation) bool { return inv.IssuerID == issuerID })
	invitation.SortTable.ResolveSpec(sort).Sort(invitations)
	return invitations, nil
}

// Create stores inv. A code already in use is a conflict.
func (r *InvitationRepository) Create(_ context.Context, inv *invitation.Invitation) (*invitation.Invitation, error) {
	created := *inv
	if created.ID.IsZero() {
		created.ID = invitation.NewID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now()
	}
	ok := r.rows.insert(created.ID, created, func(existing invitation.Invitation) bool {
		return existing.Code == created.Code
	})
	if !ok {
		return nil, fmt.Errorf("invitation code %s: %w", created.Code, domain.ErrConflict)
	}
	return &created, nil
}

// Update replaces the stored invitation.
func (r *InvitationRepository) Update(_ context.Context, inv *invitation.Invitation) (*invitation.Invitation, error) {
	updated := *inv
	if _, ok := r.rows.replace(updated.ID, updated); !ok {
		return nil, fmt.Errorf("invitation %s: %w", updated.ID, domain.ErrNotFound)
	}
	return &updated, nil
}

// Delete removes the invitation with the given ID.
func (r *InvitationRepository) Delete(_ context.Context, id invitation.ID) error {
	if _, ok := r.rows.remove(id); !ok {
		return fmt.Errorf("invitation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
