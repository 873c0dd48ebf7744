package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Options selects the Redis database that holds the storefront state.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key written by the stores.
	Prefix  string
	Timeout time.Duration
}

// Backend is an open Redis connection together with the stores built on it.
type Backend struct {
	client *redis.Client

	Store *KVStore
	Codes *RecoveryCodeStore
}

// Open dials Redis and fails fast when the server does not answer a ping.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", opts.Addr, err)
	}

	return &Backend{
		client: client,
		Store:  NewKVStore(client, opts.Prefix),
		Codes:  NewRecoveryCodeStore(client, opts.Prefix),
	}, nil
}

// Ping reports whether the server is still reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close is safe to call more than once.
func (b *Backend) Close() error {
	if err := b.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
