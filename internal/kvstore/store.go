// Package kvstore provides an expiring key-value store. It replaces the
// process-wide maps the store previously used for short-lived values (payment
// references, challenge state) with an injectable component.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a key-value store with per-entry TTL. Reads of expired keys behave
// as if the key was never set.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
