package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "qkart:ratelimit:"

// 多個 instance 共用的 token bucket, 狀態放在 redis hash
const tokenBucketScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local currentTokens = tonumber(bucket[1])
	local lastRefill = tonumber(bucket[2])

	if currentTokens == nil then
		currentTokens = capacity
		lastRefill = now
	end

	local elapsedSeconds = (now - lastRefill) / 1000000000
	currentTokens = math.min(capacity, currentTokens + elapsedSeconds * rate)

	local allowed = 0
	if currentTokens >= 1 then
		currentTokens = currentTokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', currentTokens, 'last_refill', now)
	redis.call('EXPIRE', key, 60)

	return allowed
`

type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type RedisTokenBucket struct {
	LimiterConfig
	client RedisClient
	now    func() time.Time
}

func NewRedisTokenBucket(client RedisClient, config *LimiterConfig) *RedisTokenBucket {
	return &RedisTokenBucket{
		LimiterConfig: configOrDefault(config),
		client:        client,
		now:           time.Now,
	}
}

// Allow redis 失敗時拒絕請求
func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{keyPrefix + key},
		r.Capacity,
		r.RatePS,
		r.now().UnixNano(),
	).Int64()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis rate limiter eval failed")
		return false
	}

	return result == 1
}

var _ ILimiter = (*RedisTokenBucket)(nil)
