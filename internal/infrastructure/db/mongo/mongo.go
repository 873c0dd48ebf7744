package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "storefront"
)

// Options selects the database and collection that hold the storefront state.
type Options struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Backend is a connected client plus the key-value store on its collection.
type Backend struct {
	client *mongo.Client
	db     *mongo.Database

	Store *KVStore
}

// Open connects to MongoDB and pings the primary before returning.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(opts.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	b := &Backend{client: client, db: client.Database(opts.Database)}
	if err := b.Ping(connectCtx); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo %s unreachable: %w", opts.Database, err)
	}
	b.Store = NewKVStore(b.db, opts.Collection)
	return b, nil
}

// Ping runs the ping command against the selected database.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects the client. Calling it again is a no-op.
func (b *Backend) Close(ctx context.Context) error {
	if err := b.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
