package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(context.Background(), rate.Limit(1), 1, time.Hour, time.Hour)
	defer rl.Shutdown()

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
	assert.Equal(t, 2, rl.size())
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(context.Background(), rate.Limit(1), 1, time.Hour, time.Minute)
	defer rl.Shutdown()

	rl.allow("10.0.0.1")
	rl.evict(time.Now())
	assert.Equal(t, 1, rl.size())

	rl.evict(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.size())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.9:4321"
	assert.Equal(t, "192.168.1.9", clientIP(req))

	req.RemoteAddr = "192.168.1.9"
	assert.Equal(t, "192.168.1.9", clientIP(req))
}
