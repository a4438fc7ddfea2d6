package providers

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"f2g/internal/structures"

	"golang.org/x/time/rate"
)

type RateLimiterInterface interface {
	Middleware(next http.Handler) http.Handler
	RemoveIdle(olderThan time.Duration) int
}

// RateLimiter throttles requests per client IP with a token bucket each.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	proxied bool
	metrics MetricsProviderInterface
	now     func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientIP returns the host part of RemoteAddr. With trustProxy set, the
// first X-Forwarded-For address wins when present.
func ClientIP(r *http.Request, trustProxy bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func NewRateLimiter(conf *structures.Config, metrics MetricsProviderInterface) RateLimiterInterface {
	if !conf.RateLimit.Enabled || conf.RateLimit.RequestsPerSecond <= 0 {
		return &noopRateLimiter{}
	}
	burst := conf.RateLimit.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(conf.RateLimit.RequestsPerSecond),
		burst:   burst,
		proxied: conf.RateLimit.TrustProxy,
		metrics: metrics,
		now:     time.Now,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(ClientIP(r, rl.proxied)).Allow() {
			rl.metrics.IncRejected("rate_limit")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = rl.now()
	return c.limiter
}

// RemoveIdle drops limiters for clients not seen within olderThan and
// returns how many were removed.
func (rl *RateLimiter) RemoveIdle(olderThan time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := rl.now().Add(-olderThan)
	removed := 0
	for ip, c := range rl.clients {
		if c.lastSeen.Before(threshold) {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

type noopRateLimiter struct{}

func (n *noopRateLimiter) Middleware(next http.Handler) http.Handler { return next }
func (n *noopRateLimiter) RemoveIdle(_ time.Duration) int            { return 0 }
