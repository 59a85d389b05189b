package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedis_LockAndRelease(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	l := NewRedis(rdb, 2*time.Second)
	l.wait = 50 * time.Millisecond
	l.backoff = 10 * time.Millisecond

	unlock, err := l.Lock(ctx, "drinks")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	if _, err := l.Lock(ctx, "drinks"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Lock() error = %v, want ErrBusy", err)
	}

	unlock()
	unlock()

	if mr.Exists(l.prefix + "drinks") {
		t.Errorf("lock key still present after unlock")
	}

	again, err := l.Lock(ctx, "drinks")
	if err != nil {
		t.Fatalf("Lock() after release error = %v", err)
	}
	again()
}

func TestRedis_WaitsForHolder(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	l := NewRedis(rdb, 2*time.Second)
	l.backoff = 10 * time.Millisecond

	unlock, err := l.Lock(ctx, "drinks")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	go func() {
		time.Sleep(400 * time.Millisecond)
		unlock()
	}()

	start := time.Now()
	second, err := l.Lock(ctx, "drinks")
	if err != nil {
		t.Fatalf("contended Lock() error = %v, want it to wait for the holder", err)
	}
	defer second()
	if waited := time.Since(start); waited < 350*time.Millisecond {
		t.Errorf("contended Lock() returned after %v, before the holder released", waited)
	}
}

func TestRedis_BusyIsRetryable(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	l := NewRedis(rdb, time.Second)
	l.wait = 30 * time.Millisecond
	l.backoff = 5 * time.Millisecond

	unlock, err := l.Lock(ctx, "drinks")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	_, err = l.Lock(ctx, "drinks")
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Fatalf("Lock() error = %v, want ErrUnavailable", err)
	}
	if got := apperror.HTTPStatus(err); got != 503 {
		t.Errorf("HTTPStatus() = %d, want 503", got)
	}
}

func TestRedis_ContextCancelStopsWaiting(t *testing.T) {
	_, rdb := newTestRedis(t)
	l := NewRedis(rdb, time.Second)
	l.backoff = 5 * time.Millisecond

	unlock, err := l.Lock(context.Background(), "drinks", "food")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "food"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Lock() error = %v, want deadline exceeded", err)
	}
}

func TestRedis_KeepAliveExtendsHeldKey(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedis(rdb, 300*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "drinks")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	key := l.prefix + "drinks"
	// miniredis only ages keys on FastForward.
	mr.FastForward(250 * time.Millisecond)
	if ttl := mr.TTL(key); ttl > 60*time.Millisecond {
		t.Fatalf("TTL after fast forward = %v", ttl)
	}

	time.Sleep(250 * time.Millisecond)
	if !mr.Exists(key) {
		t.Fatal("held lock expired")
	}
	if ttl := mr.TTL(key); ttl < 150*time.Millisecond {
		t.Errorf("TTL = %v, want it re-armed while held", ttl)
	}
}

func TestRedis_ReleaseKeepsForeignToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	l := NewRedis(rdb, 2*time.Second)

	unlock, err := l.Lock(ctx, "drinks")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	// Simulate expiry and takeover by another holder.
	mr.Set(l.prefix+"drinks", "someone-else")
	unlock()

	val, err := mr.Get(l.prefix + "drinks")
	if err != nil || val != "someone-else" {
		t.Errorf("foreign lock value = %q, %v; want someone-else", val, err)
	}
}
