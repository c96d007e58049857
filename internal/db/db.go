// Package db defines the key-value cache contract the lookup layer stores
// its dictionaries in, with Redis and in-memory implementations.
package db

import (
	"context"
	"time"
)

// Store is a key-value cache. Get returns ErrKeyNotFound for missing keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close()
}
