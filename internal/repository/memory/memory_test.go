package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationStore_ExpiresEntries(t *testing.T) {
	s := NewRevocationStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, s.Revoke(ctx, "jti-zero", 0))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "jti-zero")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRateLimitStore_SlidingWindow(t *testing.T) {
	s := NewRateLimitStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	for i := 0; i < 3; i++ {
		res, err := s.Hit(ctx, "ip", 3, window, base.Add(time.Duration(i)*10*time.Second))
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, i+1, res.Count)
		assert.Equal(t, base, res.Oldest)
	}

	res, err := s.Hit(ctx, "ip", 3, window, base.Add(30*time.Second))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 3, res.Count)

	// at +60s the first attempt sits exactly on the window start and drops out
	res, err = s.Hit(ctx, "ip", 3, window, base.Add(60*time.Second))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, base.Add(10*time.Second), res.Oldest)

	res, err = s.Hit(ctx, "other", 3, window, base)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Count)

	_, err = s.Hit(ctx, "ip", 3, 0, base)
	require.Error(t, err)
}

func TestRateLimitStore_ConcurrentHitsNeverExceedLimit(t *testing.T) {
	s := NewRateLimitStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	const limit = 5

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Hit(context.Background(), "login:203.0.113.7", limit, time.Minute, now)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(limit), allowed.Load())
}

func TestRateLimitStore_SweepsIdleWindows(t *testing.T) {
	s := NewRateLimitStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		_, err := s.Hit(ctx, fmt.Sprintf("submit:198.51.100.%d", i), 3, 10*time.Second, base)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, s.Len())

	_, err := s.Hit(ctx, "submit:203.0.113.1", 3, 10*time.Second, base.Add(sweepInterval))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}
