package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned when a key stays held by someone else for the whole
// wait budget. It maps to 503 so clients can retry.
var ErrBusy = fmt.Errorf("%w: catalog is being modified, please try again", apperror.ErrUnavailable)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis is a Locker shared by every instance pointed at the same Redis.
// Held keys are re-armed every ttl/3 until released, so a slow mutation keeps
// its lock; the ttl only bounds how long a crashed holder blocks others.
type Redis struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Redis{
		client:  client,
		prefix:  "lock:catalog:",
		ttl:     ttl,
		wait:    2 * ttl,
		backoff: 50 * time.Millisecond,
	}
}

func (r *Redis) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	token := uuid.New().String()
	held := make([]string, 0, len(keys))

	stop := make(chan struct{})
	var wg sync.WaitGroup

	release := func() {
		close(stop)
		wg.Wait()
		// Release must outlive a cancelled request context.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			releaseScript.Run(releaseCtx, r.client, []string{held[i]}, token)
		}
	}

	deadline := time.Now().Add(r.wait)
	for _, k := range keys {
		key := r.prefix + k
		if err := r.acquire(ctx, key, token, deadline); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.keepAlive(held, token, stop)
	}()

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// acquire polls until the key is free, ctx is done or deadline passes.
func (r *Redis) acquire(ctx context.Context, key, token string, deadline time.Time) error {
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrBusy
		}
		select {
		case <-time.After(r.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Redis) keepAlive(keys []string, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	ttl := r.ttl.Milliseconds()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.ttl/3)
			for _, k := range keys {
				extendScript.Run(ctx, r.client, []string{k}, token, ttl)
			}
			cancel()
		}
	}
}
