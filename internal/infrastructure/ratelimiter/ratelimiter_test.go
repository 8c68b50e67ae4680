package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Parallel()

	rl := New(Options{
		RequestsPerWindow: 3,
		Window:            time.Minute,
	})

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("client-a"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("client-a"))

	// other sources have their own counter
	assert.True(t, rl.Allow("client-b"))

	assert.Equal(t, 0, rl.Remaining("client-a"))
	assert.Equal(t, 2, rl.Remaining("client-b"))
	assert.Equal(t, 3, rl.GetMaxBurst())
}

func TestRateLimiterWindowReset(t *testing.T) {
	t.Parallel()

	rl := New(Options{
		RequestsPerWindow: 1,
		Window:            200 * time.Millisecond,
	})

	assert.True(t, rl.Allow("client"))

	time.Sleep(250 * time.Millisecond)

	assert.True(t, rl.Allow("client"))
}

func TestGetSourceKey(t *testing.T) {
	t.Parallel()

	rl := New(Options{SourceHeaderKey: "X-RateLimit-Key"})

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", rl.GetSourceKey(r))

	r.Header.Set("X-RateLimit-Key", "tenant-7")
	assert.Equal(t, "tenant-7", rl.GetSourceKey(r))
}
