// Package storage persists the app state as named JSON documents in a
// string key-value store.
package storage

import "context"

// KV is the string key-value store the journal reads and writes.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Provider is a KV with a lifecycle, implemented by every backend.
type Provider interface {
	KV

	Init() error
	Load() error
	Close() error

	// Keys lists every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)
	// GetConfigPath identifies the backing store without leaking secrets.
	GetConfigPath() string
}

// Migrator is implemented by backends with a versioned schema.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
}
