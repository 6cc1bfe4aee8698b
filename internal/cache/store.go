// Package cache holds the expiring key-value store that owns all ephemeral
// collaboration state (presence records, document versions, sessions and
// activity logs). Nothing in the service keeps this state in process memory;
// every replica talks to the same Store.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key is absent or has expired.
	ErrNotFound = errors.New("cache: key not found")
	// ErrUnavailable wraps transport failures talking to the backing store.
	ErrUnavailable = errors.New("cache: store unavailable")
)

// Store is the contract every backend satisfies. All values are opaque bytes;
// callers own the encoding.
type Store interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Forget(ctx context.Context, key string) error

	// Increment atomically adds one to the integer at key (absent counts as 0),
	// resets the key's TTL and returns the new value.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Keys lists live keys starting with prefix. Order is unspecified.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// ScanPrefix returns the values of every live key starting with prefix.
	ScanPrefix(ctx context.Context, prefix string) ([][]byte, error)

	// ListRange returns the whole list at key in insertion order; empty when absent.
	ListRange(ctx context.Context, key string) ([][]byte, error)
	// ListAppend pushes value to the tail, keeps only the newest maxLen items
	// and resets the TTL.
	ListAppend(ctx context.Context, key string, value []byte, maxLen int, ttl time.Duration) error
	// ListTrim keeps only the newest maxLen items.
	ListTrim(ctx context.Context, key string, maxLen int) error

	Ping(ctx context.Context) error
}
