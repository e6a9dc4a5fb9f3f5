package inference

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket that spaces out calls to the generation
// endpoint so a burst of teachers does not trip the provider's 429s
type RateLimiter struct {
	mu sync.Mutex

	tokens         float64 // current number of tokens
	maxTokens      float64 // bucket size
	refillRate     float64 // tokens added per second
	lastRefillTime time.Time
	now            func() time.Time
}

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	MaxTokens         float64 // max burst
	RequestsPerMinute float64 // sustained rate
}

// DefaultRateLimiterConfig allows a burst of 5 and 30 generations a minute
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxTokens:         5,
		RequestsPerMinute: 30,
	}
}

// NewRateLimiter creates a full bucket
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.MaxTokens < 1 {
		config.MaxTokens = 1
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultRateLimiterConfig().RequestsPerMinute
	}
	return &RateLimiter{
		tokens:         config.MaxTokens,
		maxTokens:      config.MaxTokens,
		refillRate:     config.RequestsPerMinute / 60,
		lastRefillTime: time.Now(),
		now:            time.Now,
	}
}

// Wait blocks until a token is available or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refillTokens()
		if r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		// time until the bucket holds one whole token
		waitTime := time.Duration((1 - r.tokens) / r.refillRate * float64(time.Second))
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// AvailableTokens returns the current number of available tokens
func (r *RateLimiter) AvailableTokens() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refillTokens()
	return r.tokens
}

// refillTokens adds tokens based on elapsed time (must be called with lock held)
func (r *RateLimiter) refillTokens() {
	now := r.now()
	elapsed := now.Sub(r.lastRefillTime).Seconds()
	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefillTime = now
}
