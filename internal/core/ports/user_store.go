package ports

import (
	"context"

	"github.com/tiendademo/storefront/internal/core/domain"
)

// UserStore persists the two logical slots of the account subsystem: the whole
// directory and the current session snapshot. Every call reads or writes a full slot.
type UserStore interface {
	ReadAllUsers(ctx context.Context) ([]domain.User, error)
	WriteAllUsers(ctx context.Context, users []domain.User) error
	// ReadSession returns nil when nobody is logged in.
	ReadSession(ctx context.Context) (*domain.User, error)
	// WriteSession clears the slot when u is nil.
	WriteSession(ctx context.Context, u *domain.User) error
}
