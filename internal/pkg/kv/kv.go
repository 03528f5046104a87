// Package kv provides the flat key-value record store backing the
// user, session and daily-claim records. Values are JSON-serialized
// by the callers; the store only sees opaque bytes.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a minimal get/set/delete/list-by-prefix key-value store.
// Production uses Redis; tests use the in-memory implementation.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the values of all keys with the given prefix.
	List(ctx context.Context, prefix string) ([][]byte, error)

	// Close releases backend resources.
	Close() error
}
