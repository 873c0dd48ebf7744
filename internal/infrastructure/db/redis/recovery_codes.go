package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecoveryCodeStore keeps password recovery codes in Redis and lets the key
// TTL handle expiry.
// Key format: <prefix>recovery:<email>
type RecoveryCodeStore struct {
	client *redis.Client
	prefix string
}

// NewRecoveryCodeStore creates a RecoveryCodeStore wrapping the given Redis client.
func NewRecoveryCodeStore(client *redis.Client, prefix string) *RecoveryCodeStore {
	return &RecoveryCodeStore{client: client, prefix: prefix}
}

// Save stores code for email, replacing any pending one.
func (r *RecoveryCodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("recovery code save: %w", err)
	}
	return nil
}

// Lookup returns the pending code for email, if it has not expired.
func (r *RecoveryCodeStore) Lookup(ctx context.Context, email string) (string, bool, error) {
	code, err := r.client.Get(ctx, r.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("recovery code lookup: %w", err)
	}
	return code, true, nil
}

// Delete consumes the pending code.
func (r *RecoveryCodeStore) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.key(email)).Err()
}

func (r *RecoveryCodeStore) key(email string) string {
	return fmt.Sprintf("%srecovery:%s", r.prefix, email)
}
