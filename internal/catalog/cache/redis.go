package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/catalog"
	"github.com/fekuna/omnipos-menu-service/internal/events"
	"github.com/redis/go-redis/v9"
)

const (
	snapshotKey   = "catalog:snapshot"
	generationKey = "catalog:generation"
)

var (
	_ catalog.Cache    = (*RedisCache)(nil)
	_ events.Publisher = (*RedisCache)(nil)
)

// setIfGeneration writes the snapshot only while the generation is unchanged.
var setIfGeneration = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if not current then
	current = "0"
end
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (*catalog.Snapshot, int64, error) {
	vals, err := c.client.MGet(ctx, snapshotKey, generationKey).Result()
	if err != nil {
		return nil, 0, err
	}

	var gen int64
	if raw, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, fmt.Errorf("decode catalog generation: %w", err)
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var s catalog.Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, gen, fmt.Errorf("decode cached catalog: %w", err)
	}
	return &s, gen, nil
}

func (c *RedisCache) Set(ctx context.Context, s *catalog.Snapshot, gen int64) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return setIfGeneration.Run(ctx, c.client, []string{snapshotKey, generationKey},
		strconv.FormatInt(gen, 10), data, c.ttl.Milliseconds()).Err()
}

// Invalidate bumps the generation and drops the snapshot in one transaction,
// so a reader that loaded before the bump cannot store its result.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, snapshotKey)
		return nil
	})
	return err
}

// Publish drops the snapshot on any catalog change.
func (c *RedisCache) Publish(ctx context.Context, _ events.Event) error {
	return c.Invalidate(ctx)
}
