package kv

import "context"

// NullStore stands in when no durable storage is available. Every read finds
// nothing and every write is dropped; it never fails.
type NullStore struct{}

func NewNullStore() NullStore { return NullStore{} }

func (NullStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (NullStore) Set(context.Context, string, string) error { return nil }

func (NullStore) Remove(context.Context, string) error { return nil }
