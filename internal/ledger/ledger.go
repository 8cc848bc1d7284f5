package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrEthical07/shopAuth/cache"
)

// ErrUnavailable wraps any failure of the underlying cache.
var ErrUnavailable = errors.New("ledger unavailable")

// Kind selects one of the per-email entries.
type Kind uint8

const (
	Code Kind = iota
	Cooldown
	RequestCount
	SpamLock
	Attempts
	AccountLock
)

const lockedValue = "locked"

func (k Kind) name() string {
	switch k {
	case Code:
		return "otp"
	case Cooldown:
		return "otp_cooldown"
	case RequestCount:
		return "otp_request_count"
	case SpamLock:
		return "otp_spam_lock"
	case Attempts:
		return "otp_attempts"
	case AccountLock:
		return "otp_lock"
	default:
		return "otp_unknown"
	}
}

// Ledger is a thin, policy-free wrapper over a [cache.Cache].
type Ledger struct {
	cache  cache.Cache
	prefix string
}

// New creates a Ledger. prefix may be empty.
func New(c cache.Cache, prefix string) *Ledger {
	return &Ledger{cache: c, prefix: prefix}
}

// Key returns the cache key for kind and email.
func (l *Ledger) Key(kind Kind, email string) string {
	if l.prefix == "" {
		return kind.name() + ":" + email
	}
	return l.prefix + ":" + kind.name() + ":" + email
}

// Value reads the raw entry.
func (l *Ledger) Value(ctx context.Context, kind Kind, email string) (string, bool, error) {
	val, ok, err := l.cache.Get(ctx, l.Key(kind, email))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, ok, nil
}

// IsLocked reports whether the entry exists. Used for sentinel kinds.
func (l *Ledger) IsLocked(ctx context.Context, kind Kind, email string) (bool, error) {
	_, ok, err := l.Value(ctx, kind, email)
	return ok, err
}

// Counter reads a counter entry. Missing or non-numeric values read as zero.
func (l *Ledger) Counter(ctx context.Context, kind Kind, email string) (int64, error) {
	val, ok, err := l.Value(ctx, kind, email)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// Bump increments a counter and refreshes its TTL, returning the new count.
func (l *Ledger) Bump(ctx context.Context, kind Kind, email string, ttl time.Duration) (int64, error) {
	n, err := l.cache.Incr(ctx, l.Key(kind, email), ttl)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Put writes value with ttl, replacing any prior value and expiry.
func (l *Ledger) Put(ctx context.Context, kind Kind, email, value string, ttl time.Duration) error {
	if err := l.cache.Set(ctx, l.Key(kind, email), value, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// SetLock writes a sentinel entry.
func (l *Ledger) SetLock(ctx context.Context, kind Kind, email string, ttl time.Duration) error {
	return l.Put(ctx, kind, email, lockedValue, ttl)
}

// Clear deletes the given kinds for email in one cache call.
func (l *Ledger) Clear(ctx context.Context, email string, kinds ...Kind) error {
	if len(kinds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kinds))
	for _, k := range kinds {
		keys = append(keys, l.Key(k, email))
	}
	if err := l.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
