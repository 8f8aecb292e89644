package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss signals that the key is absent, as opposed to a transport failure.
var ErrMiss = errors.New("cache: miss")

// Cache is a string key-value store with per-key TTL. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Close() error
}

// Noop is used when no cache backend is configured; every read misses.
type Noop struct{}

var _ Cache = Noop{}

func (Noop) Get(context.Context, string) (string, error) { return "", ErrMiss }

func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }

func (Noop) Close() error { return nil }
