// Package storage defines the key-value capability the marketplace
// persists through.  Each collection (users, properties, bookings,
// messages) and the session slot live under a fixed string key as a
// JSON document.  Backends only move opaque bytes; encoding belongs to
// the callers.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or has
// been deleted.  Callers rely on it to detect first-run seeding.
var ErrNotFound = errors.New("storage: key not found")

// Storage is implemented by every backend.  Implementations must be
// safe for concurrent use.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by backends that hold a connection.
type Closer interface {
	Close() error
}

// Close releases the backend's connection if it holds one.
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
