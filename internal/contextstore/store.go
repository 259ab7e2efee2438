// Package contextstore provides the shared key-value layer agents point
// into with context references. Messages carry only the reference string;
// the store holds the full context text. Backends: in-memory (default) and
// Redis.
package contextstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a reference does not exist or has expired.
var ErrNotFound = errors.New("context reference not found")

// Store is the pluggable backend interface.
type Store interface {
	// Set stores a value under a reference. ttl <= 0 means no expiry.
	Set(ctx context.Context, ref, value string, ttl time.Duration) error

	// Get retrieves a value. Returns ErrNotFound for missing or expired
	// references.
	Get(ctx context.Context, ref string) (string, error)

	// Delete removes a reference. Deleting a missing reference is not an
	// error.
	Delete(ctx context.Context, ref string) error

	// Refs lists all live reference ids.
	Refs(ctx context.Context) ([]string, error)

	// Clear removes all stored context.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Open selects a backend by name: "memory" or "redis". url is only used by
// the redis backend.
func Open(ctx context.Context, backend, url string) (Store, error) {
	switch backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, url)
	default:
		return nil, fmt.Errorf("unknown context store backend %q", backend)
	}
}
