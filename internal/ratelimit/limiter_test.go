package ratelimit_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/taskboard-api/internal/ratelimit"
)

func newTestLimiter(t *testing.T, limit int64, window time.Duration) (*ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratelimit.NewLimiterWithConfig(client, limit, window), mr
}

func TestLimiterAllowsUnderLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "1.2.3.4", "login")
		require.NoError(t, err)
		assert.False(t, exceeded)
		require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "1.2.3.4", "login"))
	}
}

func TestLimiterBlocksAtLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "1.2.3.4", "login"))
	}

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "1.2.3.4", "login")
	require.NoError(t, err)
	assert.True(t, exceeded)
}

func TestLimiterScopesByPurposeAndIP(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "1.2.3.4", "login"))

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "1.2.3.4", "register")
	require.NoError(t, err)
	assert.False(t, exceeded, "different purpose has its own window")

	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "5.6.7.8", "login")
	require.NoError(t, err)
	assert.False(t, exceeded, "different IP has its own window")
}

func TestLimiterWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "1.2.3.4", "login"))

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "1.2.3.4", "login")
	require.NoError(t, err)
	require.True(t, exceeded)

	mr.FastForward(2 * time.Minute)

	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "1.2.3.4", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}
