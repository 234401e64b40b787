package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not present.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is a minimal string cache. A ttl of zero means the entry never
// expires.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
