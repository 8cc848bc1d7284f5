package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned, wrapped, when the backing store cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// Cache is the key-value capability consumed by the ledger and the engine.
// Get reports a missing or expired key as ok=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
