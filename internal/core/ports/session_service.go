package ports

import (
	"context"

	"github.com/tiendademo/storefront/internal/core/domain"
)

// SessionService tracks who is logged in.
type SessionService interface {
	// Login returns domain.ErrInvalidCredentials or domain.ErrUnexpected on failure.
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	// CurrentUser is a snapshot read; it performs no I/O.
	CurrentUser() *domain.User
	// Subscribe calls fn with the current user right away and after every transition.
	// fn may call back into the service; the resulting transitions are
	// delivered after the one in progress.
	Subscribe(fn func(*domain.User)) (unsubscribe func())
	UpdateProfile(ctx context.Context, u domain.User) (bool, error)
	ChangeOwnPassword(ctx context.Context, current, next string) error
}
