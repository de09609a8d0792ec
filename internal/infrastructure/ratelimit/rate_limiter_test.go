package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(Policy{Limit: rate.Every(time.Hour), Burst: 2}, nil)

	ok, _ := rl.Allow("1.2.3.4", "http")
	assert.True(t, ok)
	ok, _ = rl.Allow("1.2.3.4", "http")
	assert.True(t, ok)

	ok, wait := rl.Allow("1.2.3.4", "http")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	// other keys have their own bucket
	ok, _ = rl.Allow("5.6.7.8", "http")
	assert.True(t, ok)
}

func TestAllowUsesActionPolicy(t *testing.T) {
	rl := NewRateLimiter(Policy{Limit: rate.Inf, Burst: 1}, map[string]Policy{
		"send_message": Per(1, time.Minute),
	})

	ok, _ := rl.Allow("u1", "send_message")
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", "send_message")
	assert.False(t, ok)

	for i := 0; i < 5; i++ {
		ok, _ = rl.Allow("u1", "other")
		assert.True(t, ok)
	}
}

func TestCleanupRemovesIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(Policy{Limit: rate.Inf, Burst: 1}, nil)
	rl.Allow("a", "http")
	rl.Allow("b", "http")
	assert.Equal(t, 2, rl.Size())

	assert.Equal(t, 0, rl.Cleanup(time.Now()))
	assert.Equal(t, 2, rl.Cleanup(time.Now().Add(time.Hour)))
	assert.Equal(t, 0, rl.Size())
}
