package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.IsAllowed("client-a"))
	}
	assert.False(t, rl.IsAllowed("client-a"))
	assert.Equal(t, 0, rl.RemainingRequests("client-a"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.IsAllowed("client-a"))
	assert.False(t, rl.IsAllowed("client-a"))
	assert.True(t, rl.IsAllowed("client-b"))
}

func TestRateLimiterWindowExpires(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.IsAllowed("client-a"))
	assert.False(t, rl.IsAllowed("client-a"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.IsAllowed("client-a"))
}
