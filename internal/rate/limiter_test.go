package rate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func newTestLimiter(t *testing.T) *Limiter {
	t.Helper()

	_, client := newTestRedis(t)
	return New(client, "test:rl:")
}

func TestAllowWithinBudget(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 5, Window: time.Minute}

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, "login", "1.2.3.4", p)
		if err != nil {
			t.Fatalf("Allow %d failed: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if d.Count != int64(i) {
			t.Fatalf("expected count %d, got %d", i, d.Count)
		}
	}
}

func TestAllowDeniesBeyondBudget(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		if _, err := l.Allow(ctx, "login", "1.2.3.4", p); err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
	}

	d, err := l.Allow(ctx, "login", "1.2.3.4", p)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if d.Allowed {
		t.Fatal("request beyond budget should be denied")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Fatalf("RetryAfter out of bounds: %v", d.RetryAfter)
	}
}

func TestAllowCountsDeniedRequests(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 1, Window: time.Minute}

	for i := 0; i < 4; i++ {
		if _, err := l.Allow(ctx, "login", "k", p); err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
	}

	count, err := l.Count(ctx, "login", "k", p)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 4 {
		t.Fatalf("denied requests must still increment; got count %d", count)
	}
}

func TestAllowUnlimitedPolicySkipsStore(t *testing.T) {
	// nil client would panic on any store call; Max <= 0 must never reach it.
	l := New(nil, "test:rl:")

	d, err := l.Allow(context.Background(), "health", "k", Policy{Max: 0, Window: time.Minute})
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !d.Allowed {
		t.Fatal("unlimited policy must always allow")
	}
}

func TestAllowIsolatesClientKeys(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 1, Window: time.Minute}

	if _, err := l.Allow(ctx, "login", "client-a", p); err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	d, err := l.Allow(ctx, "login", "client-a", p)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if d.Allowed {
		t.Fatal("client-a should be exhausted")
	}

	d, err = l.Allow(ctx, "login", "client-b", p)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !d.Allowed {
		t.Fatal("client-b must have its own counter")
	}
}

func TestAllowIsolatesRouteClasses(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 1, Window: time.Minute}

	if _, err := l.Allow(ctx, "login", "k", p); err != nil {
		t.Fatalf("Allow failed: %v", err)
	}

	d, err := l.Allow(ctx, "read", "k", p)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !d.Allowed {
		t.Fatal("route classes must count independently")
	}
}

func TestAllowWindowRollOverResetsCounter(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 1, Window: time.Minute}

	base := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return base }

	if _, err := l.Allow(ctx, "login", "k", p); err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	d, err := l.Allow(ctx, "login", "k", p)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if d.Allowed {
		t.Fatal("budget should be exhausted in the first window")
	}

	// Next window: the key changes, so the count starts fresh even though the
	// old counter still exists in the store.
	l.now = func() time.Time { return base.Add(time.Minute) }

	d, err = l.Allow(ctx, "login", "k", p)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !d.Allowed {
		t.Fatal("new window must reset the budget")
	}
	if d.Count != 1 {
		t.Fatalf("expected fresh count 1, got %d", d.Count)
	}
}

func TestAllowRetryAfterTracksWindowRemainder(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 1, Window: time.Minute}

	// 15 seconds into a minute window: 45 seconds remain.
	l.now = func() time.Time { return time.Unix(1_699_999_995, 0) }

	d, err := l.Allow(ctx, "login", "k", p)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if d.RetryAfter != 45*time.Second {
		t.Fatalf("expected RetryAfter 45s, got %v", d.RetryAfter)
	}
}

func TestAllowStoreUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	l := New(client, "test:rl:")
	mr.Close()

	_, err := l.Allow(context.Background(), "login", "k", Policy{Max: 5, Window: time.Minute})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAllowConcurrentNeverOverAdmits(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()
	p := Policy{Max: 10, Window: time.Minute}

	const workers = 50
	var allowed atomic.Int64
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			d, err := l.Allow(ctx, "login", "shared", p)
			if err != nil {
				t.Errorf("Allow failed: %v", err)
				return
			}
			if d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != int64(p.Max) {
		t.Fatalf("expected exactly %d admissions, got %d", p.Max, got)
	}
}

func TestCountMissingCounterReadsZero(t *testing.T) {
	l := newTestLimiter(t)

	count, err := l.Count(context.Background(), "login", "nobody", Policy{Max: 5, Window: time.Minute})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero for missing counter, got %d", count)
	}
}
