package inference

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterRefills(t *testing.T) {
	clock := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(RateLimiterConfig{MaxTokens: 2, RequestsPerMinute: 60})
	limiter.now = func() time.Time { return clock }
	limiter.lastRefillTime = clock

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))
	assert.InDelta(t, 0, limiter.AvailableTokens(), 0.001)

	clock = clock.Add(1500 * time.Millisecond)
	assert.InDelta(t, 1.5, limiter.AvailableTokens(), 0.001)
	require.NoError(t, limiter.Wait(ctx))
	assert.InDelta(t, 0.5, limiter.AvailableTokens(), 0.001)

	// never exceeds the bucket size
	clock = clock.Add(time.Hour)
	assert.InDelta(t, 2, limiter.AvailableTokens(), 0.001)
}

func TestRateLimiterWaitHonorsContext(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{MaxTokens: 1, RequestsPerMinute: 1})
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, limiter.Wait(ctx), context.DeadlineExceeded)
}
