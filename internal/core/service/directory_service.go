package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/core/ports"
	"github.com/tiendademo/storefront/internal/metrics"
)

// DirectoryService implements ports.DirectoryService. Every operation reads
// the full directory from the store, changes it in memory and writes it back;
// nothing is cached between calls.
type DirectoryService struct {
	store  ports.UserStore
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

// NewDirectoryService returns a DirectoryService. A nil hasher means plain passwords.
func NewDirectoryService(store ports.UserStore, hasher ports.PasswordHasher, log zerolog.Logger) *DirectoryService {
	if hasher == nil {
		hasher = PlainPasswords{}
	}
	return &DirectoryService{store: store, hasher: hasher, log: log}
}

// SeedDefaultAdmin inserts the canonical administrator when the directory is empty.
func (s *DirectoryService) SeedDefaultAdmin(ctx context.Context) error {
	users, err := s.store.ReadAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	password, err := s.hasher.Hash(domain.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: hash: %w", err)
	}
	if err := s.store.WriteAllUsers(ctx, []domain.User{domain.DefaultAdmin(password)}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Str("email", domain.DefaultAdminEmail).Msg("default admin seeded")
	return nil
}

// Register appends u unless its email is taken.
func (s *DirectoryService) Register(ctx context.Context, u domain.User) (bool, error) {
	users, err := s.store.ReadAllUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("register: %w", err)
	}
	if indexOf(users, u.Email) >= 0 {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		s.log.Debug().Str("email", u.Email).Msg("registration rejected: email taken")
		return false, nil
	}

	rec := u.Clone()
	if rec.Password, err = s.hasher.Hash(u.Password); err != nil {
		return false, fmt.Errorf("register: hash: %w", err)
	}
	if err := s.store.WriteAllUsers(ctx, append(users, rec)); err != nil {
		return false, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("user registered")
	return true, nil
}

// Authenticate returns the first user whose email and password both match
// exactly, or nil.
func (s *DirectoryService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	users, err := s.store.ReadAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	for _, u := range users {
		if u.Email == email && s.hasher.Matches(u.Password, password) {
			found := u.Clone()
			return &found, nil
		}
	}
	return nil, nil
}

// FindByEmail returns the stored record for email, or nil.
func (s *DirectoryService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.store.ReadAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	i := indexOf(users, email)
	if i < 0 {
		return nil, nil
	}
	found := users[i].Clone()
	return &found, nil
}

// VerifyPassword reports whether password is the current password of email.
// An unknown email yields false.
func (s *DirectoryService) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return false, err
	}
	return s.hasher.Matches(u.Password, password), nil
}

// UpdateProfile merges u into the record with the same email. The stored
// email is never replaced.
func (s *DirectoryService) UpdateProfile(ctx context.Context, u domain.User) (bool, error) {
	return s.modify(ctx, "update profile", u.Email, func(rec *domain.User) error {
		return s.mergeProfile(rec, u)
	})
}

// ChangePassword replaces the password of email.
func (s *DirectoryService) ChangePassword(ctx context.Context, email, newPassword string) (bool, error) {
	return s.modify(ctx, "change password", email, func(rec *domain.User) error {
		hashed, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		rec.Password = hashed
		return nil
	})
}

// SetStatus activates or deactivates the account of email.
func (s *DirectoryService) SetStatus(ctx context.Context, email string, status domain.Status) (bool, error) {
	return s.modify(ctx, "set status", email, func(rec *domain.User) error {
		rec.Status = status
		return nil
	})
}

// ListAll returns a snapshot of the whole directory.
func (s *DirectoryService) ListAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.ReadAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, len(users))
	for i, u := range users {
		out[i] = u.Clone()
	}
	return out, nil
}

// modify runs the read-modify-write cycle shared by the update operations.
// It returns false without writing when email is unknown.
func (s *DirectoryService) modify(ctx context.Context, op, email string, apply func(*domain.User) error) (bool, error) {
	users, err := s.store.ReadAllUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	i := indexOf(users, email)
	if i < 0 {
		s.log.Debug().Str("op", op).Str("email", email).Msg("user not found")
		return false, nil
	}
	if err := apply(&users[i]); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.WriteAllUsers(ctx, users); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info().Str("op", op).Str("email", email).Msg("user updated")
	return true, nil
}

// mergeProfile copies the set fields of in over rec. Empty strings and a nil
// address leave the stored value untouched; a non-nil empty address clears it.
func (s *DirectoryService) mergeProfile(rec *domain.User, in domain.User) error {
	if in.FullName != "" {
		rec.FullName = in.FullName
	}
	if in.Handle != "" {
		rec.Handle = in.Handle
	}
	if in.BirthDate != "" {
		rec.BirthDate = in.BirthDate
	}
	if in.Address != nil {
		rec.Address = domain.StringPtr(*in.Address)
	}
	if in.Role != "" {
		rec.Role = in.Role
	}
	if in.Status != "" {
		rec.Status = in.Status
	}
	// Callers usually send back the whole snapshot, password included.
	if in.Password != "" && in.Password != rec.Password {
		hashed, err := s.hasher.Hash(in.Password)
		if err != nil {
			return err
		}
		rec.Password = hashed
	}
	return nil
}

func indexOf(users []domain.User, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}
