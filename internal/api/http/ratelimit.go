package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/hrtriage/ticket-service/internal/config"
	apperrors "github.com/hrtriage/ticket-service/pkg/util"
)

const (
	visitorTTL   = 10 * time.Minute
	cleanupEvery = 1000
)

// visitor pairs a client bucket with its last activity for idle eviction.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter enforces a per-client token bucket keyed by IP. Buckets are
// created on demand; idle ones are evicted during lookups to bound memory.
// Safe for concurrent use.
type ClientLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  int
}

// NewClientLimiter builds a limiter from config. A non-positive rate disables
// limiting and returns nil; RegisterMiddlewares skips a nil limiter.
func NewClientLimiter(cfg config.RateLimitConfig) *ClientLimiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &ClientLimiter{
		rps:      rate.Limit(cfg.RPS),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

// Handle rejects requests that exceed the client's bucket with 429.
func (l *ClientLimiter) Handle(c *fiber.Ctx) error {
	if !l.bucket(c.IP()).Allow() {
		c.Set(fiber.HeaderRetryAfter, "1")
		return apperrors.NewDomainError("RATE_LIMITED", "rate limit exceeded", http.StatusTooManyRequests, nil)
	}
	return c.Next()
}

// bucket fetches or creates the limiter for key. Eviction runs before the
// lookup so a stale bucket for this key is replaced rather than refreshed.
func (l *ClientLimiter) bucket(key string) *rate.Limiter {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.lookups++
	if l.lookups >= cleanupEvery {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) >= visitorTTL {
				delete(l.visitors, k)
			}
		}
		l.lookups = 0
	}

	if v, ok := l.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}
