package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository stores users. Identifications are unique, compared
// case-insensitively.
type UserRepository struct {
	rows *table[user.ID, user.User]
	now  Clock
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository(now Clock) *UserRepository {
	if now == nil {
		now = time.Now
	}
	return &UserRepository{rows: newTable[user.ID, user.User](), now: now}
}

// Find returns the user with the given ID.
func (r *UserRepository) Find(_ context.Context, id user.ID) (*user.User, error) {
	u, ok := r.rows.get(id)
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

// FindByIdentification returns the user with the given identification.
func (r *UserRepository) FindByIdentification(_ context.Context, identification string) (*user.User, error) {
	u, ok := r.rows.find(func(u user.User) bool {
		return strings.EqualFold(u.Identification, identification)
	})
	if !ok {
		return nil, fmt.Errorf("user %q: %w", identification, domain.ErrNotFound)
	}
	return &u, nil
}

// Create stores u, assigning an ID when it has none.
func (r *UserRepository) Create(_ context.Context, u *user.User) (*user.User, error) {
	created := *u
	if created.ID.IsZero() {
		created.ID = user.NewID()
	}
	if created.FirstLogin == nil {
		now := r.now()
		created.FirstLogin = &now
	}
	ok := r.rows.insert(created.ID, created, func(existing user.User) bool {
		return strings.EqualFold(existing.Identification, created.Identification)
	})
	if !ok {
		return nil, fmt.Errorf("user %q: %w", created.Identification, domain.ErrConflict)
	}
	return &created, nil
}

// Update replaces the stored user.
func (r *UserRepository) Update(_ context.Context, u *user.User) (*user.User, error) {
	updated := *u
	if _, ok := r.rows.replace(updated.ID, updated); !ok {
		return nil, fmt.Errorf("user %s: %w", updated.ID, domain.ErrNotFound)
	}
	return &updated, nil
}

// Delete removes the user with the given ID.
func (r *UserRepository) Delete(_ context.Context, id user.ID) error {
	if _, ok := r.rows.remove(id); !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
