package userstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/infrastructure/kv"
)

func TestStore_ReadAllUsers_Empty(t *testing.T) {
	s := New(kv.NewMemoryStore(), "", "")

	users, err := s.ReadAllUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestStore_ReadAllUsers_BlankAndNull(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := New(mem, "", "")

	for _, raw := range []string{"", "   ", "null"} {
		require.NoError(t, mem.Set(ctx, DefaultUsersKey, raw))
		users, err := s.ReadAllUsers(ctx)
		require.NoError(t, err, "raw=%q", raw)
		assert.Empty(t, users)
	}
}

func TestStore_ReadAllUsers_Corrupt(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, DefaultUsersKey, "{oops"))

	_, err := New(mem, "", "").ReadAllUsers(ctx)
	assert.Error(t, err)
}

func TestStore_UsersRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemoryStore(), "", "")
	in := []domain.User{
		{Email: "b@x.com", Role: domain.RoleCustomer},
		{Email: "a@x.com", Role: domain.RoleAdmin, Status: domain.StatusInactive},
	}

	require.NoError(t, s.WriteAllUsers(ctx, in))
	out, err := s.ReadAllUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStore_PersistedLayout(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := New(mem, "", "")

	require.NoError(t, s.WriteAllUsers(ctx, []domain.User{{
		FullName:  "Ana",
		Handle:    "ana",
		Email:     "ana@x.com",
		BirthDate: "2000-01-01",
		Password:  "Secret1!",
		Role:      domain.RoleCustomer,
	}}))

	raw, found, err := mem.Get(ctx, DefaultUsersKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"fullName":"Ana","handle":"ana","email":"ana@x.com","birthDate":"2000-01-01","password":"Secret1!","role":"customer"}]`, raw)
}

func TestStore_Session(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := New(mem, "users", "session")

	u, err := s.ReadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	ana := domain.User{Email: "ana@x.com", Role: domain.RoleCustomer}
	require.NoError(t, s.WriteSession(ctx, &ana))

	got, err := s.ReadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ana, *got)

	require.NoError(t, s.WriteSession(ctx, nil))
	_, found, err := mem.Get(ctx, "session")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_NullBackendIsAlwaysEmpty(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewNullStore(), "", "")

	require.NoError(t, s.WriteAllUsers(ctx, []domain.User{{Email: "a@x.com"}}))
	users, err := s.ReadAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, s.WriteSession(ctx, &domain.User{Email: "a@x.com"}))
	u, err := s.ReadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}
