package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/core/ports"
	"github.com/tiendademo/storefront/internal/metrics"
)

const (
	recoveryCodeDigits = 6
	DefaultCodeTTL     = 15 * time.Minute
)

var codeSpace = big.NewInt(1_000_000)

// RecoveryService issues and redeems one-time password recovery codes.
type RecoveryService struct {
	directory ports.DirectoryService
	codes     ports.RecoveryCodeStore
	ttl       time.Duration
	log       zerolog.Logger

	generate func() (string, error)
}

// NewRecoveryService returns a RecoveryService. A non-positive ttl means DefaultCodeTTL.
func NewRecoveryService(directory ports.DirectoryService, codes ports.RecoveryCodeStore, ttl time.Duration, log zerolog.Logger) *RecoveryService {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &RecoveryService{
		directory: directory,
		codes:     codes,
		ttl:       ttl,
		log:       log,
		generate:  randomCode,
	}
}

// RequestCode issues a fresh code for a registered email, replacing any
// earlier one. The code is returned so the caller can deliver it.
func (s *RecoveryService) RequestCode(ctx context.Context, email string) (string, error) {
	u, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("request code: %w", err)
	}
	if u == nil {
		return "", domain.ErrUserNotFound
	}

	code, err := s.generate()
	if err != nil {
		return "", fmt.Errorf("request code: %w", err)
	}
	if err := s.codes.Save(ctx, email, code, s.ttl); err != nil {
		return "", fmt.Errorf("request code: %w", err)
	}

	metrics.RecoveryCodesTotal.WithLabelValues("issued").Inc()
	s.log.Info().Str("email", email).Dur("ttl", s.ttl).Msg("recovery code issued")
	return code, nil
}

// VerifyCode checks code against the live code for email without consuming it.
func (s *RecoveryService) VerifyCode(ctx context.Context, email, code string) error {
	stored, ok, err := s.codes.Lookup(ctx, email)
	if err != nil {
		return fmt.Errorf("verify code: %w", err)
	}
	if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		metrics.RecoveryCodesTotal.WithLabelValues("rejected").Inc()
		s.log.Info().Str("email", email).Msg("recovery code rejected")
		return domain.ErrInvalidCode
	}
	metrics.RecoveryCodesTotal.WithLabelValues("verified").Inc()
	return nil
}

// ResetPassword replaces the password of email when code is valid and then
// consumes the code.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.VerifyCode(ctx, email, code); err != nil {
		return err
	}

	ok, err := s.directory.ChangePassword(ctx, email, newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("could not discard used recovery code")
	}

	metrics.RecoveryCodesTotal.WithLabelValues("reset").Inc()
	s.log.Info().Str("email", email).Msg("password reset")
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", recoveryCodeDigits, n.Int64()), nil
}
