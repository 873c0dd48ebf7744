package ports

import (
	"context"

	"github.com/tiendademo/storefront/internal/core/domain"
)

// DirectoryService owns all writes to the user directory.
//
// Expected failures (duplicate email, unknown email) are reported through the
// boolean or nil result. The error return is reserved for storage failures.
type DirectoryService interface {
	SeedDefaultAdmin(ctx context.Context) error
	Register(ctx context.Context, u domain.User) (bool, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	VerifyPassword(ctx context.Context, email, password string) (bool, error)
	UpdateProfile(ctx context.Context, u domain.User) (bool, error)
	ChangePassword(ctx context.Context, email, newPassword string) (bool, error)
	SetStatus(ctx context.Context, email string, status domain.Status) (bool, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}
