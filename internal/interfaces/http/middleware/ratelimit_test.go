package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a RateLimiter without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, cfg RateLimitConfig) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(cfg)
	require.NotNil(t, rl)
	rl.now = clock.Now
	rl.lastSweep = clock.Now()
	return rl, clock
}

func TestNewRateLimiter(t *testing.T) {
	t.Run("zero rate disables limiting", func(t *testing.T) {
		assert.Nil(t, NewRateLimiter(RateLimitConfig{}))
	})

	t.Run("burst defaults to twice the rate", func(t *testing.T) {
		assert.Equal(t, 10, NewRateLimiter(RateLimitConfig{RequestsPerSecond: 5}).Burst())
		assert.Equal(t, 1, NewRateLimiter(RateLimitConfig{RequestsPerSecond: 0.2}).Burst())
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows a burst then blocks", func(t *testing.T) {
		rl, _ := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, Burst: 3})

		for range 3 {
			assert.True(t, rl.Allow("10.0.0.1"))
		}
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.Equal(t, 0, rl.Remaining("10.0.0.1"))
	})

	t.Run("separate buckets per client", func(t *testing.T) {
		rl, _ := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.2"))
	})

	t.Run("refills over time", func(t *testing.T) {
		rl, clock := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 2, Burst: 2})

		assert.True(t, rl.Allow("k"))
		assert.True(t, rl.Allow("k"))
		assert.False(t, rl.Allow("k"))
		assert.Equal(t, time.Second, rl.RetryAfter("k"))

		clock.Advance(500 * time.Millisecond)
		assert.True(t, rl.Allow("k"))
		assert.False(t, rl.Allow("k"))

		clock.Advance(time.Second)
		assert.Equal(t, 2, rl.Remaining("k"))
		assert.Zero(t, rl.RetryAfter("k"))
	})

	t.Run("drops idle clients", func(t *testing.T) {
		rl, clock := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, IdleTTL: time.Minute})

		rl.Allow("a")
		rl.Allow("b")
		assert.Equal(t, 2, rl.size())

		clock.Advance(2 * time.Minute)
		rl.Allow("c")
		assert.Equal(t, 1, rl.size())
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		rl, _ := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, Burst: 50})

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})
}

func newRateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.Use(RateLimit(rl))
	router.GET("/api/v1/payments/consolidated", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("sets limit headers on allowed requests", func(t *testing.T) {
		rl, _ := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, Burst: 3})
		router := newRateLimitedRouter(rl)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/consolidated", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("returns 429 in the standard envelope", func(t *testing.T) {
		rl, _ := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
		router := newRateLimitedRouter(rl)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/consolidated", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/payments/consolidated", nil)
		req.Header.Set(RequestIDHeader, "req-429")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeRateLimited, resp.Error.Code)
		assert.Equal(t, "req-429", resp.Error.RequestID)
	})

	t.Run("keys on client IP", func(t *testing.T) {
		rl, _ := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
		router := newRateLimitedRouter(rl)

		for _, addr := range []string{"192.0.2.1:1234", "192.0.2.2:1234"} {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/consolidated", nil)
			req.RemoteAddr = addr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, addr)
		}
	})

	t.Run("nil limiter passes through", func(t *testing.T) {
		router := newRateLimitedRouter(nil)

		for range 5 {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/consolidated", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
		}
	})
}

func TestRateLimitByKey(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitByKey(rl, func(c *gin.Context) string {
		return c.GetHeader("X-Front-Desk")
	}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	send := func(desk string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Front-Desk", desk)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("lobby"))
	assert.Equal(t, http.StatusTooManyRequests, send("lobby"))
	assert.Equal(t, http.StatusOK, send("spa"))
}
