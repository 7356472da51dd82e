package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

/*
單機版 token bucket, 每個 key 一個 bucket, 取用時才補充
請使用 defer 呼叫 Stop()
*/
type TokenBucket struct {
	LimiterConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	idleTTL time.Duration
	cancel  chan struct{}
	once    sync.Once //for close background
}

func NewTokenBucket(config *LimiterConfig) *TokenBucket {
	t := &TokenBucket{
		LimiterConfig: configOrDefault(config),
		buckets:       make(map[string]*bucket),
		now:           time.Now,
		idleTTL:       time.Minute,
		cancel:        make(chan struct{}),
	}
	go t.background()
	return t
}

func (t *TokenBucket) Allow(ctx context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(t.Capacity), lastRefill: now}
		t.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = math.Min(float64(t.Capacity), b.tokens+elapsed*float64(t.RatePS))
		b.lastRefill = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// background 清掉閒置且已補滿的 bucket
func (t *TokenBucket) background() {
	ticker := time.NewTicker(t.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-t.cancel:
			return
		case <-ticker.C:
			t.evictIdle()
		}
	}
}

func (t *TokenBucket) evictIdle() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, b := range t.buckets {
		if now.Sub(b.lastRefill) >= t.idleTTL {
			delete(t.buckets, key)
		}
	}
}

func (t *TokenBucket) Stop() {
	t.once.Do(func() {
		close(t.cancel)
	})
}

var _ ILimiter = (*TokenBucket)(nil)
