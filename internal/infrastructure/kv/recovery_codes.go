package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tiendademo/storefront/internal/core/ports"
)

const recoveryKeyPrefix = "recovery:"

// RecoveryCodeStore keeps recovery codes in any ports.KVStore, recording the
// expiry alongside the code for backends without native TTLs.
type RecoveryCodeStore struct {
	kv  ports.KVStore
	now func() time.Time
}

type recoveryEntry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewRecoveryCodeStore(kv ports.KVStore) *RecoveryCodeStore {
	return &RecoveryCodeStore{kv: kv, now: time.Now}
}

func (r *RecoveryCodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	raw, err := json.Marshal(recoveryEntry{Code: code, ExpiresAt: r.now().Add(ttl).UTC()})
	if err != nil {
		return fmt.Errorf("recovery code encode: %w", err)
	}
	return r.kv.Set(ctx, recoveryKeyPrefix+email, string(raw))
}

// Lookup drops an expired entry and reports it as missing.
func (r *RecoveryCodeStore) Lookup(ctx context.Context, email string) (string, bool, error) {
	raw, found, err := r.kv.Get(ctx, recoveryKeyPrefix+email)
	if err != nil || !found {
		return "", false, err
	}
	var e recoveryEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return "", false, fmt.Errorf("recovery code decode: %w", err)
	}
	if !r.now().Before(e.ExpiresAt) {
		_ = r.kv.Remove(ctx, recoveryKeyPrefix+email)
		return "", false, nil
	}
	return e.Code, true, nil
}

func (r *RecoveryCodeStore) Delete(ctx context.Context, email string) error {
	return r.kv.Remove(ctx, recoveryKeyPrefix+email)
}
