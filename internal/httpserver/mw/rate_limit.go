package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/utils"
)

// RateLimitConfig tunes the per-client token bucket guarding mutating routes.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int           // sweep idle clients early once the table holds this many
	SweepInterval     time.Duration // default 1m
	IdleTTL           time.Duration // default 15m
	TrustProxy        bool
	Key               func(*http.Request) string // defaults to the client IP
	Now               func() time.Time
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	if c.Key == nil {
		trust := c.TrustProxy
		c.Key = func(r *http.Request) string { return utils.ClientIP(r, trust) }
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type tokenBucket struct {
	tokens   float64
	refilled time.Time
}

// take refills the bucket for the time elapsed since the last call and
// consumes one token if available.
func (b *tokenBucket) take(now time.Time, perSec, capacity float64) (ok bool, remaining, retryAfter int) {
	if dt := now.Sub(b.refilled).Seconds(); dt > 0 {
		b.tokens = math.Min(capacity, b.tokens+dt*perSec)
		b.refilled = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	return false, 0, max(1, int(math.Ceil((1-b.tokens)/perSec)))
}

type limiter struct {
	cfg      RateLimitConfig
	perSec   float64
	capacity float64

	mu        sync.Mutex
	clients   map[string]*tokenBucket
	lastSweep time.Time
}

func (l *limiter) allow(key string, now time.Time) (bool, int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries
	if full || now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		l.sweep(now)
	}

	b, ok := l.clients[key]
	if !ok {
		b = &tokenBucket{tokens: l.capacity, refilled: now}
		l.clients[key] = b
	}
	return b.take(now, l.perSec, l.capacity)
}

// sweep drops clients not seen for IdleTTL.
func (l *limiter) sweep(now time.Time) {
	for key, b := range l.clients {
		if now.Sub(b.refilled) > l.cfg.IdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects requests beyond the per-client budget with 429, a
// Retry-After header and a JSON error body.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()
	l := &limiter{
		cfg:       cfg,
		perSec:    float64(cfg.RefillPerIPPerMin) / 60,
		capacity:  float64(cfg.Burst),
		clients:   make(map[string]*tokenBucket),
		lastSweep: cfg.Now(),
	}
	limit := strconv.Itoa(cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retry := l.allow(cfg.Key(r), cfg.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(retry))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
