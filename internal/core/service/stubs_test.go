package service

import (
	"context"
	"errors"
	"time"

	"github.com/tiendademo/storefront/internal/core/domain"
)

var errStorage = errors.New("storage unavailable")

type stubUserStore struct {
	users   []domain.User
	session *domain.User

	readErr     error
	writeErr    error
	sessionErr  error
	panicOnRead bool

	userWrites    int
	sessionWrites int
}

func newStubUserStore(users ...domain.User) *stubUserStore {
	return &stubUserStore{users: users}
}

func (s *stubUserStore) ReadAllUsers(context.Context) ([]domain.User, error) {
	if s.panicOnRead {
		panic("corrupt directory")
	}
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]domain.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (s *stubUserStore) WriteAllUsers(_ context.Context, users []domain.User) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.userWrites++
	s.users = make([]domain.User, len(users))
	for i, u := range users {
		s.users[i] = u.Clone()
	}
	return nil
}

func (s *stubUserStore) ReadSession(context.Context) (*domain.User, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return cloneUser(s.session), nil
}

func (s *stubUserStore) WriteSession(_ context.Context, u *domain.User) error {
	if s.sessionErr != nil {
		return s.sessionErr
	}
	s.sessionWrites++
	s.session = cloneUser(u)
	return nil
}

type stubCodeStore struct {
	codes map[string]string
	ttls  map[string]time.Duration
}

func newStubCodeStore() *stubCodeStore {
	return &stubCodeStore{codes: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubCodeStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.codes[email] = code
	s.ttls[email] = ttl
	return nil
}

func (s *stubCodeStore) Lookup(_ context.Context, email string) (string, bool, error) {
	code, ok := s.codes[email]
	return code, ok, nil
}

func (s *stubCodeStore) Delete(_ context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

func customer(email, password string) domain.User {
	return domain.User{
		FullName:  "Camila Rojas",
		Handle:    "camila",
		Email:     email,
		BirthDate: "1998-04-12",
		Address:   domain.StringPtr("Av. Siempre Viva 742"),
		Password:  password,
		Role:      domain.RoleCustomer,
		Status:    domain.StatusActive,
	}
}
