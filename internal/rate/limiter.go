package rate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy is one route class's fixed-window budget.
type Policy struct {
	Max    int
	Window time.Duration
}

// Decision is the outcome of a single Allow call. RetryAfter is the time
// until the current window rolls over; it is populated on every decision so
// callers can surface it without re-deriving the window.
type Decision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Limiter enforces per-(class, client key) fixed-window limits using Redis
// counters. Safe for concurrent use; all mutation happens inside Redis.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time // injectable for window roll-over tests
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, prefix string) *Limiter {
	return &Limiter{
		redis:  redisClient,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow performs the atomic check-and-increment for one request. The
// increment itself is the atomic operation: concurrent requests in the same
// window each observe a distinct INCR return value, so they can never
// jointly exceed the budget. Aborted requests are not rolled back; rate
// limiting is conservative.
//
// A Policy with Max <= 0 is unlimited and skips the store entirely.
func (l *Limiter) Allow(ctx context.Context, class, clientKey string, p Policy) (Decision, error) {
	if p.Max <= 0 {
		return Decision{Allowed: true}, nil
	}

	windowSec := int64(p.Window / time.Second)
	if windowSec <= 0 {
		windowSec = 1
	}

	nowSec := l.now().Unix()
	windowID := nowSec / windowSec
	retryAfter := time.Duration(windowSec-nowSec%windowSec) * time.Second

	key := l.counterKey(class, clientKey, windowID)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// EXPIRE on first hit only; the window id in the key carries the window
	// identity, the TTL merely reclaims dead counters.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, p.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	return Decision{
		Allowed:    count <= int64(p.Max),
		Count:      count,
		RetryAfter: retryAfter,
	}, nil
}

// Count reports the current counter value for a (class, client key) pair in
// the present window. Missing counters read as zero.
func (l *Limiter) Count(ctx context.Context, class, clientKey string, p Policy) (int64, error) {
	windowSec := int64(p.Window / time.Second)
	if windowSec <= 0 {
		windowSec = 1
	}
	windowID := l.now().Unix() / windowSec

	count, err := l.redis.Get(ctx, l.counterKey(class, clientKey, windowID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

func (l *Limiter) counterKey(class, clientKey string, windowID int64) string {
	var b strings.Builder
	b.Grow(len(l.prefix) + len(class) + len(clientKey) + 24)
	b.WriteString(l.prefix)
	b.WriteString(class)
	b.WriteByte(':')
	b.WriteString(clientKey)
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(windowID, 10))
	return b.String()
}
