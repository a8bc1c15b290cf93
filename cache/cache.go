package cache

import (
	"context"
	"errors"
	"time"
)

// CatalogCache stores serialized catalog listings by key.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop is used when no Redis address is configured; every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (Noop) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (Noop) Delete(context.Context, ...string) error {
	return nil
}
