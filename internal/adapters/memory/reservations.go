package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/reservation"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var _ ports.ReservationRepository = (*ReservationRepository)(nil)

// ReservationRepository stores reservations. An item carries at most one.
type ReservationRepository struct {
	rows *table[reservation.ID, reservation.Reservation]
	now  Clock
}

// NewReservationRepository creates an empty ReservationRepository.
func NewReservationRepository(now Clock) *ReservationRepository {
	if now == nil {
		now = time.Now
	}
	return &ReservationRepository{rows: newTable[reservation.ID, reservation.Reservation](), now: now}
}

// Find returns the reservation with the given ID.
func (r *ReservationRepository) Find(_ context.Context, id reservation.ID) (*reservation.Reservation, error) {
	res, ok := r.rows.get(id)
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}
	return &res, nil
}

// FindByItem returns the reservation on itemID.
func (r *ReservationRepository) FindByItem(_ context.Context, itemID item.ID) (*reservation.Reservation, error) {
	res, ok := r.rows.find(func(res reservation.Reservation) bool { return res.ItemID == itemID })
	if !ok {
		return nil, fmt.Errorf("reservation of item %s: %w", itemID, domain.ErrNotFound)
	}
	return &res, nil
}

// FindByItems returns the reservations of itemIDs keyed by item.
func (r *ReservationRepository) FindByItems(_ context.Context, itemIDs []item.ID) (map[item.ID]reservation.Reservation, error) {
	wanted := make(map[item.ID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	found := r.rows.filter(func(res reservation.Reservation) bool {
		_, ok := wanted[res.ItemID]
		return ok
	})
	out := make(map[item.ID]reservation.Reservation, len(found))
	for _, res := range found {
		out[res.ItemID] = res
	}
	return out, nil
}

// Create stores res. Reserving an item that is already reserved is a
// conflict.
func (r *ReservationRepository) Create(_ context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	created := *res
	if created.ID.IsZero() {
		created.ID = reservation.NewID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now()
	}
	ok := r.rows.insert(created.ID, created, func(existing reservation.Reservation) bool {
		return existing.ItemID == created.ItemID
	})
	if !ok {
		return nil, fmt.Errorf("reservation of item %s: %w", created.ItemID, domain.ErrConflict)
	}
	return &created, nil
}

// Delete removes the reservation with the given ID.
func (r *ReservationRepository) Delete(_ context.Context, id reservation.ID) error {
	if _, ok := r.rows.remove(id); !ok {
		return fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
