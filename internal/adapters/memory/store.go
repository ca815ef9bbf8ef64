package memory

import "time"

// Store bundles one repository per entity sharing a clock.
type Store struct {
	Users        *UserRepository
	Lists        *ListRepository
	Items        *ItemRepository
	Favorites    *FavoriteRepository
	Reservations *ReservationRepository
	Invitations  *InvitationRepository
}

// New creates an empty Store. A nil clock uses time.Now.
func New(now Clock) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		Users:        NewUserRepository(now),
		Lists:        NewListRepository(now),
		Items:        NewItemRepository(now),
		Favorites:    NewFavoriteRepository(now),
		Reservations: NewReservationRepository(now),
		Invitations:  NewInvitationRepository(now),
	}
}
