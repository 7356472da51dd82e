package ratelimit

import "context"

type LimiterConfig struct {
	Capacity int
	RatePS   int // tokens/秒
}

func GetDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Capacity: 10,
		RatePS:   1,
	}
}

// ILimiter 以 key (例如 client IP) 分別計數
type ILimiter interface {
	Allow(ctx context.Context, key string) bool
}

func configOrDefault(config *LimiterConfig) LimiterConfig {
	if config == nil || config.Capacity <= 0 || config.RatePS <= 0 {
		return GetDefaultLimiterConfig()
	}
	return *config
}
