package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	result int64
	err    error
	keys   []string
	args   []interface{}
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.keys = keys
	f.args = args
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal(f.result)
	return cmd
}

func TestRedisTokenBucketAllow(t *testing.T) {
	client := &fakeRedis{result: 1}
	l := NewRedisTokenBucket(client, &LimiterConfig{Capacity: 3, RatePS: 2})
	l.now = func() time.Time { return time.Unix(0, 42) }

	require.True(t, l.Allow(context.Background(), "1.2.3.4"))
	require.Equal(t, []string{keyPrefix + "1.2.3.4"}, client.keys)
	require.Equal(t, []interface{}{3, 2, int64(42)}, client.args)
}

func TestRedisTokenBucketReject(t *testing.T) {
	l := NewRedisTokenBucket(&fakeRedis{result: 0}, nil)
	require.False(t, l.Allow(context.Background(), "k"))
}

func TestRedisTokenBucketClientError(t *testing.T) {
	l := NewRedisTokenBucket(&fakeRedis{err: errors.New("connection refused")}, nil)
	require.False(t, l.Allow(context.Background(), "k"))
}
