package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "storefront.json", cfg.Store.File)
	assert.Equal(t, "usuarios", cfg.Store.UsersKey)
	assert.Equal(t, "usuarioActual", cfg.Store.SessionKey)
	assert.Equal(t, "plain", cfg.PasswordHashing)
	assert.Equal(t, 15*time.Minute, cfg.RecoveryCodeTTL)
	assert.Equal(t, "storefront:", cfg.Redis.Prefix)
	assert.Equal(t, "kv", cfg.Mongo.Collection)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":               "production",
		"STORE_BACKEND":     "Redis",
		"PASSWORD_HASHING":  "bcrypt",
		"RECOVERY_CODE_TTL": "90s",
		"REDIS_DB":          "3",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "bcrypt", cfg.PasswordHashing)
	assert.Equal(t, 90*time.Second, cfg.RecoveryCodeTTL)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFrom_RejectsUnknownValues(t *testing.T) {
	for _, env := range []map[string]string{
		{"STORE_BACKEND": "sqlite"},
		{"PASSWORD_HASHING": "md5"},
	} {
		_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
		assert.Error(t, err, env)
	}
}
