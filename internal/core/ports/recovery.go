package ports

import (
	"context"
	"time"
)

// RecoveryCodeStore keeps one pending recovery code per email.
type RecoveryCodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Lookup returns found=false for a missing or expired code.
	Lookup(ctx context.Context, email string) (code string, found bool, err error)
	Delete(ctx context.Context, email string) error
}

// RecoveryService drives the three-step password recovery flow.
type RecoveryService interface {
	RequestCode(ctx context.Context, email string) (string, error)
	VerifyCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
