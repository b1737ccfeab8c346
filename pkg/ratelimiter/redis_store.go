package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable indicates the storage backend could not be reached.
var ErrStoreUnavailable = errors.New("ratelimiter: store unavailable")

// RedisStore keeps bucket state in Redis so the budget is shared across
// replicas. Refill and consume happen in a single Lua script to stay atomic
// under concurrent requests for the same key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a store writing keys under the given prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

var consumeScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local refill_interval_ms = tonumber(ARGV[3])
local tokens_requested = tonumber(ARGV[4])
local now_ms = tonumber(ARGV[5])
local ttl_ms = tonumber(ARGV[6])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill_ms = tonumber(state[2])

if tokens == nil then
	tokens = capacity
	last_refill_ms = now_ms
end

local elapsed_ms = now_ms - last_refill_ms
local max_intervals = math.floor(capacity / refill_rate) + 1
local intervals = math.floor(elapsed_ms / refill_interval_ms)
if intervals > max_intervals then intervals = max_intervals end

if intervals > 0 then
	tokens = math.min(tokens + intervals * refill_rate, capacity)
	last_refill_ms = now_ms
end

tokens = tokens - tokens_requested

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill_ms)
redis.call('PEXPIRE', key, ttl_ms)

return {tokens, last_refill_ms + refill_interval_ms}
`)

func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	// Keys expire once a fully idle bucket would have refilled to capacity.
	ttl := config.RefillInterval * time.Duration(config.Capacity/config.RefillRate+1)

	res, err := consumeScript.Run(ctx, rs.client, []string{rs.key(key)},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		time.Now().UnixMilli(),
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrStoreUnavailable
	}

	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (rs *RedisStore) key(key string) string {
	return rs.prefix + ":" + key
}
