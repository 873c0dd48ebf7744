package ports

import "context"

// KVStore is the flat string key-value substrate the account subsystem persists into.
// Get reports found=false for an absent key; it is not an error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
