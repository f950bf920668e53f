package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// TokenBucket implements token bucket rate limiting.
// Tokens refill continuously at refillPerMinute.
type TokenBucket struct {
	mu              sync.Mutex
	capacity        float64
	tokens          float64
	refillPerMinute float64
	lastRefill      time.Time
	lastUsed        time.Time
}

func NewTokenBucket(capacity, refillPerMinute int, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:        float64(capacity),
		tokens:          float64(capacity),
		refillPerMinute: float64(refillPerMinute),
		lastRefill:      now,
		lastUsed:        now,
	}
}

// Allow takes one token if available.
func (tb *TokenBucket) Allow(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Minutes()
	if elapsed > 0 {
		tb.tokens += elapsed * tb.refillPerMinute
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}
	tb.lastUsed = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RetryAfter is how long until the next token, rounded up to a second.
func (tb *TokenBucket) RetryAfter() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.refillPerMinute <= 0 {
		return time.Minute
	}
	missing := 1 - tb.tokens
	if missing <= 0 {
		return 0
	}
	d := time.Duration(missing / tb.refillPerMinute * float64(time.Minute))
	if d%time.Second != 0 {
		d = d.Truncate(time.Second) + time.Second
	}
	return d
}

// RateLimiter keeps one bucket per key (session or client IP).
type RateLimiter struct {
	mu              sync.Mutex
	buckets         map[string]*TokenBucket
	capacity        int
	refillPerMinute int
	now             func() time.Time
}

func NewRateLimiter(capacity, refillPerMinute int) *RateLimiter {
	if capacity <= 0 {
		capacity = 1
	}
	return &RateLimiter{
		buckets:         make(map[string]*TokenBucket),
		capacity:        capacity,
		refillPerMinute: refillPerMinute,
		now:             time.Now,
	}
}

func (rl *RateLimiter) bucket(key string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = NewTokenBucket(rl.capacity, rl.refillPerMinute, rl.now())
		rl.buckets[key] = b
	}
	return b
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.bucket(key).Allow(rl.now())
}

// Prune drops buckets unused for longer than idle.
func (rl *RateLimiter) Prune(idle time.Duration) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		b.mu.Lock()
		stale := now.Sub(b.lastUsed) > idle
		b.mu.Unlock()
		if stale {
			delete(rl.buckets, key)
		}
	}
}

// ErrRateLimited is matched by every *RateLimitError.
var ErrRateLimited = errors.New("rate limit exceeded, please try again later")

// RateLimitError is handed to a DenyFunc when a request runs out of tokens.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return ErrRateLimited.Error() }

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// KeyFunc picks the rate limit key for a request.
type KeyFunc func(r *http.Request) string

// ClientIP keys by the connection's remote address. Cookie values are chosen
// by the client, so they are never used as keys.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// DenyFunc writes the response for a refused request. Retry-After is already set.
type DenyFunc func(w http.ResponseWriter, r *http.Request, err error)

func plainDeny(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusTooManyRequests)
}

// RateLimit creates a rate limiting middleware around the analyze endpoints,
// so one client cannot drain the model quota. A nil deny answers with plain text.
func RateLimit(rl *RateLimiter, key KeyFunc, deny DenyFunc) func(http.Handler) http.Handler {
	if deny == nil {
		deny = plainDeny
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := rl.bucket(key(r))
			if !b.Allow(rl.now()) {
				retry := b.RetryAfter()
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				deny(w, r, &RateLimitError{RetryAfter: retry})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
