package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the durable on-device store for tokens, the cached
// profile, the attendance snapshot and flags. Implementations must be safe
// for concurrent use.
type KeyValueStore interface {
	// Get returns the value for key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value string) error

	// Delete removes keys. Missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
}
