// Package userstore persists the user directory and the session snapshot as
// JSON documents in a flat key-value store.
package userstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/core/ports"
)

// Default slot keys.
const (
	DefaultUsersKey   = "usuarios"
	DefaultSessionKey = "usuarioActual"
)

// Store implements ports.UserStore on top of a ports.KVStore.
type Store struct {
	kv         ports.KVStore
	usersKey   string
	sessionKey string
}

// New returns a Store. Empty keys fall back to the defaults.
func New(kv ports.KVStore, usersKey, sessionKey string) *Store {
	if usersKey == "" {
		usersKey = DefaultUsersKey
	}
	if sessionKey == "" {
		sessionKey = DefaultSessionKey
	}
	return &Store{kv: kv, usersKey: usersKey, sessionKey: sessionKey}
}

// ReadAllUsers returns an empty slice when the slot is absent or blank.
func (s *Store) ReadAllUsers(ctx context.Context) ([]domain.User, error) {
	raw, found, err := s.kv.Get(ctx, s.usersKey)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	users := []domain.User{}
	if !found || strings.TrimSpace(raw) == "" {
		return users, nil
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *Store) WriteAllUsers(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Set(ctx, s.usersKey, string(raw)); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func (s *Store) ReadSession(ctx context.Context) (*domain.User, error) {
	raw, found, err := s.kv.Get(ctx, s.sessionKey)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var u *domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return u, nil
}

func (s *Store) WriteSession(ctx context.Context, u *domain.User) error {
	if u == nil {
		if err := s.kv.Remove(ctx, s.sessionKey); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.sessionKey, string(raw)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
