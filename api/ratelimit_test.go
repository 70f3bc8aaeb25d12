package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLimiter_PerClientBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cl := newClientLimiter(1, 2)
	cl.now = func() time.Time { return now }

	// GIVEN: a burst of two
	assert.True(t, cl.allow("10.0.0.1"))
	assert.True(t, cl.allow("10.0.0.1"))
	assert.False(t, cl.allow("10.0.0.1"))

	// Another client has its own bucket
	assert.True(t, cl.allow("10.0.0.2"))

	// WHEN: a second passes, one token refills
	now = now.Add(time.Second)
	assert.True(t, cl.allow("10.0.0.1"))
	assert.False(t, cl.allow("10.0.0.1"))
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cl := newClientLimiter(1, 1)
	cl.now = func() time.Time { return now }

	cl.allow("a")
	cl.allow("b")
	require.Equal(t, 2, cl.size())

	now = now.Add(idleClientTTL + time.Minute)
	cl.allow("c")
	assert.Equal(t, 1, cl.size())
}

func TestRouter_RateLimit(t *testing.T) {
	h := newTestHandler(t)
	router := NewRouter(h, RouterOptions{AllowedOrigins: []string{"*"}, RateLimitRPS: 0.001, RateLimitBurst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/presets", nil)
		req.RemoteAddr = "203.0.113.7:4321"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Health checks are not limited
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:5555"
	assert.Equal(t, "198.51.100.4", clientAddr(req))

	req.RemoteAddr = "not-an-address"
	assert.Equal(t, "not-an-address", clientAddr(req))
}
