// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/autosalon/internal/core"
)

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
	// Skip lets a request through without spending budget.
	Skip func(*http.Request) bool
	// Limited renders the refusal. Retry-After is already set when it runs.
	Limited http.Handler
}

// RateLimiter spends one unit of a Redis-held budget per request. While
// Redis is unreachable each instance counts in memory instead.
type RateLimiter struct {
	redis  *redis_rate.Limiter
	local  *memoryBuckets
	config RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Limited == nil {
		cfg.Limited = http.HandlerFunc(plainTooManyRequests)
	}

	return &RateLimiter{
		redis:  redis_rate.NewLimiter(rdb),
		local:  newMemoryBuckets(),
		config: cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.Skip != nil && rl.config.Skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := core.Key(rl.config.KeyFunc(r))
		allowed, remaining, retryAfter := rl.take(r, key)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit.Rate))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			secs := int(retryAfter.Round(time.Second) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			rl.config.Limited.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(
	r *http.Request,
	key string,
) (allowed bool, remaining int, retryAfter time.Duration) {
	res, err := rl.redis.Allow(r.Context(), key, rl.config.Limit)
	if err == nil {
		return res.Allowed > 0, res.Remaining, res.RetryAfter
	}

	slog.DebugContext(r.Context(), "rate limit counted locally", "key", key, "error", err)
	return rl.local.take(key, rl.config.Limit)
}

// ClientIP trusts the proxy-appended last X-Forwarded-For entry, then
// X-Real-IP, then the socket address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + ClientIP(r)
}

// KeyByIPAndEndpoint gives each route its own budget per client, so a burst
// of login attempts does not eat into browsing. Inside a router group the
// matched chi pattern names the route; elsewhere numeric path segments are
// collapsed.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routeName(r)
}

func routeName(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
			return pattern
		}
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, s := range segments {
		if _, err := strconv.ParseUint(s, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

// OnlyMethods skips the limiter for every method not listed.
func OnlyMethods(methods ...string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		for _, m := range methods {
			if r.Method == m {
				return false
			}
		}
		return true
	}
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: time.Minute,
	}
}

func plainTooManyRequests(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Too many requests. Try again shortly.", http.StatusTooManyRequests)
}

const bucketIdle = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// memoryBuckets holds one token bucket per key. Idle buckets are swept on
// the way through instead of by a background goroutine.
type memoryBuckets struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

func newMemoryBuckets() *memoryBuckets {
	return &memoryBuckets{
		buckets:   make(map[string]*bucket),
		nextSweep: time.Now().Add(bucketIdle),
	}
}

func (m *memoryBuckets) take(
	key string,
	limit redis_rate.Limit,
) (bool, int, time.Duration) {
	now := time.Now()
	every := limit.Period / time.Duration(max(limit.Rate, 1))

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.After(m.nextSweep) {
		for k, b := range m.buckets {
			if now.Sub(b.lastSeen) > bucketIdle {
				delete(m.buckets, k)
			}
		}
		m.nextSweep = now.Add(bucketIdle)
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), limit.Burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	if !b.limiter.AllowN(now, 1) {
		return false, 0, every
	}
	return true, max(int(b.limiter.TokensAt(now)), 0), 0
}
