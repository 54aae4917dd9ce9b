// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestKeyByIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "ratelimit:ip:10.0.0.7", KeyByIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.1")
	assert.Equal(t, "ratelimit:ip:192.0.2.1", KeyByIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.9")
	assert.Equal(t, "ratelimit:ip:203.0.113.9", KeyByIP(req))
}

func TestKeyByIPAndEndpointCollapsesIDs(t *testing.T) {
	a := httptest.NewRequest(http.MethodPost, "/cart/update/15/increment", nil)
	b := httptest.NewRequest(http.MethodPost, "/cart/update/16/increment", nil)
	a.RemoteAddr = "10.0.0.1:1"
	b.RemoteAddr = "10.0.0.1:2"

	assert.Equal(t, KeyByIPAndEndpoint(a), KeyByIPAndEndpoint(b))
	assert.Equal(t,
		"ratelimit:ip:10.0.0.1:endpoint:/cart/update/{id}/increment",
		KeyByIPAndEndpoint(a))
}

func TestKeyByIPAndEndpointUsesRoutePattern(t *testing.T) {
	var key string
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				key = KeyByIPAndEndpoint(req)
				next.ServeHTTP(w, req)
			})
		})
		r.Post("/add_to_cart/{carID}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	req := httptest.NewRequest(http.MethodPost, "/add_to_cart/abc", nil)
	req.RemoteAddr = "10.0.0.2:1"
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "ratelimit:ip:10.0.0.2:endpoint:/add_to_cart/{carID}", key)
}

func TestOnlyMethods(t *testing.T) {
	bypass := OnlyMethods(http.MethodPost)

	assert.True(t, bypass(httptest.NewRequest(http.MethodGet, "/login", nil)))
	assert.False(t, bypass(httptest.NewRequest(http.MethodPost, "/login", nil)))
}

// With Redis unreachable the limiter falls back to the in-process bucket.
func TestRateLimiterLocalFallback(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, RateLimitConfig{
		Limit:   PerMinute(2, 2),
		KeyFunc: KeyByIPAndEndpoint,
		Skip:    OnlyMethods(http.MethodPost),
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/login", nil)
		req.RemoteAddr = "10.9.9.9:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send(http.MethodPost).Code)
	assert.Equal(t, http.StatusNoContent, send(http.MethodPost).Code)

	limited := send(http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "30", limited.Header().Get("Retry-After"))
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, send(http.MethodGet).Code, "GET bypasses the login limiter")
}

func TestRateLimiterUsesLimitedHandler(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, RateLimitConfig{
		Limit: PerMinute(1, 1),
		Limited: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("slow down"))
		}),
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
		req.RemoteAddr = "10.9.9.8:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send().Code)
	limited := send()
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "slow down", limited.Body.String())
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
}
