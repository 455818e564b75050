package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLimiter(t *testing.T) *RateLimiter {
	rl := NewRateLimiter(&RateLimitConfig{
		IPRequestsPerSecond: 1,
		IPBurst:             3,
		IPBlockDuration:     time.Minute,
		TxPerSecond:         1,
		TxBurst:             10,
		TxPerDay:            2,
		CleanupInterval:     time.Hour,
		BucketTTL:           time.Hour,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func TestAllowIPBurstThenBlock(t *testing.T) {
	rl := testLimiter(t)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.AllowIP("10.0.0.1")
		require.True(t, allowed, "request %d", i)
	}

	allowed, info := rl.AllowIP("10.0.0.1")
	require.False(t, allowed)
	require.Equal(t, "rate", info.LimitType)

	// blocked now, even though a token may have refilled
	allowed, info = rl.AllowIP("10.0.0.1")
	require.False(t, allowed)
	require.Equal(t, "blocked", info.LimitType)

	allowed, _ = rl.AllowIP("10.0.0.2")
	require.True(t, allowed)
	require.Equal(t, 1, rl.GetStats().BlockedBuckets)
}

func TestAllowTxDailyCap(t *testing.T) {
	rl := testLimiter(t)

	for i := 0; i < 2; i++ {
		allowed, _ := rl.AllowTx("10.0.0.1")
		require.True(t, allowed)
	}
	allowed, info := rl.AllowTx("10.0.0.1")
	require.False(t, allowed)
	require.Equal(t, "daily", info.LimitType)
	require.Positive(t, info.RetryAfter)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := testLimiter(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(rl)(next)

	send := func(method, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/v1/farming/claim", nil)
		req.Header.Set("X-Forwarded-For", ip+", 192.168.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.9").Code)
	require.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.9").Code)

	rec := send(http.MethodPost, "10.0.0.9")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "tx_limit_exceeded")
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// reads are only subject to the IP bucket, which has no tokens left
	rec = send(http.MethodGet, "10.0.0.9")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	require.Equal(t, "1.2.3.4", GetClientIP(req))

	req.Header.Set("X-Real-IP", "5.6.7.8")
	require.Equal(t, "5.6.7.8", GetClientIP(req))

	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
	require.Equal(t, "9.9.9.9", GetClientIP(req))
}
