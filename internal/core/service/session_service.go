package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/core/ports"
	"github.com/tiendademo/storefront/internal/metrics"
	"github.com/tiendademo/storefront/pkg/observable"
)

// SessionService implements ports.SessionService. It has two states,
// anonymous (nil user) and authenticated, and keeps the persisted snapshot and
// the published value in step: the store is written first and the new value is
// published only if that write succeeded. Subscribers may call back into the
// service; transitions they cause are delivered after the current one.
type SessionService struct {
	// mu orders store writes and their notifications.
	mu sync.Mutex

	directory ports.DirectoryService
	store     ports.UserStore
	current   *observable.Subject[*domain.User]
	log       zerolog.Logger
}

// NewSessionService restores any persisted session snapshot. An unreadable
// snapshot is logged and the service starts anonymous.
func NewSessionService(ctx context.Context, directory ports.DirectoryService, store ports.UserStore, log zerolog.Logger) *SessionService {
	initial, err := store.ReadSession(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not restore session, starting anonymous")
		initial = nil
	}
	return &SessionService{
		directory: directory,
		store:     store,
		current:   observable.NewSubject(initial),
		log:       log,
	}
}

// Login normalises the credentials, checks them against the directory and,
// on success, persists and publishes the user.
func (s *SessionService) Login(ctx context.Context, email, password string) (u *domain.User, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("login aborted")
			metrics.LoginsTotal.WithLabelValues("unexpected").Inc()
			u, err = nil, domain.ErrUnexpected
		}
	}()

	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	found, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		return nil, s.unexpected(err, email)
	}
	if found == nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.log.Info().Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.setSession(ctx, found); err != nil {
		return nil, s.unexpected(err, email)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("email", email).Str("role", string(found.Role)).Msg("login succeeded")
	return cloneUser(found), nil
}

// Logout clears the persisted snapshot and publishes nil.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.setSession(ctx, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Msg("logged out")
	return nil
}

// CurrentUser returns a copy of the current snapshot, or nil.
func (s *SessionService) CurrentUser() *domain.User {
	return cloneUser(s.current.Value())
}

// Subscribe delivers the current user immediately and then every transition.
func (s *SessionService) Subscribe(fn func(*domain.User)) func() {
	return s.current.Subscribe(func(u *domain.User) {
		fn(cloneUser(u))
	})
}

// UpdateProfile updates the directory record and, when it belongs to the
// logged-in user, replaces the session snapshot with the stored record.
func (s *SessionService) UpdateProfile(ctx context.Context, u domain.User) (bool, error) {
	ok, err := s.directory.UpdateProfile(ctx, u)
	if err != nil || !ok {
		return ok, err
	}
	if err := s.syncIfCurrent(ctx, u.Email); err != nil {
		return true, fmt.Errorf("update profile: %w", err)
	}
	return true, nil
}

// ChangeOwnPassword changes the password of the logged-in user after checking
// the current one.
func (s *SessionService) ChangeOwnPassword(ctx context.Context, current, next string) error {
	me := s.current.Value()
	if me == nil {
		return domain.ErrInvalidCredentials
	}

	valid, err := s.directory.VerifyPassword(ctx, me.Email, current)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !valid {
		return domain.ErrWrongPassword
	}

	ok, err := s.directory.ChangePassword(ctx, me.Email, next)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	if err := s.syncIfCurrent(ctx, me.Email); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (s *SessionService) syncIfCurrent(ctx context.Context, email string) error {
	me := s.current.Value()
	if me == nil || me.Email != email {
		return nil
	}
	stored, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}
	return s.setSession(ctx, stored)
}

func (s *SessionService) setSession(ctx context.Context, u *domain.User) error {
	snapshot := cloneUser(u)

	s.mu.Lock()
	if err := s.store.WriteSession(ctx, snapshot); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current.Enqueue(snapshot)
	s.mu.Unlock()

	s.current.Flush()
	return nil
}

func (s *SessionService) unexpected(err error, email string) error {
	metrics.LoginsTotal.WithLabelValues("unexpected").Inc()
	s.log.Error().Err(err).Str("email", email).Msg("login failed")
	return fmt.Errorf("%w: %w", domain.ErrUnexpected, err)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := u.Clone()
	return &c
}
