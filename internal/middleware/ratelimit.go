package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reelhub/reelhub/internal/response"
)

// RateLimiter is an in-memory sliding window keyed by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int           // Max requests allowed
	window   time.Duration // Time window for rate limiting
	now      func() time.Time
	// trust proxy headers for the client address
	trustProxy bool
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewRateLimiter starts a cleanup goroutine; call Stop to end it.
func NewRateLimiter(limit int, window time.Duration, trustProxy bool) *RateLimiter {
	rl := &RateLimiter{
		requests:   make(map[string][]time.Time),
		limit:      limit,
		window:     window,
		now:        time.Now,
		trustProxy: trustProxy,
		stop:       make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow records a request from ip and reports whether it is within the limit.
// When it is not, the returned duration is how long until a slot frees up.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	requests := rl.requests[ip]
	valid := requests[:0]
	for _, reqTime := range requests {
		if reqTime.After(cutoff) {
			valid = append(valid, reqTime)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0].Add(rl.window).Sub(now)
	}

	rl.requests[ip] = append(valid, now)
	return true, 0
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup removes IPs with no recent requests
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for ip, requests := range rl.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(rl.requests, ip)
		}
	}
}

// Limit wraps an auth endpoint and answers 429 with Retry-After when the
// client IP is over its budget.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r, rl.trustProxy)

		allowed, retryAfter := rl.Allow(ip)
		if !allowed {
			slog.Warn("rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path,
			)
			seconds := int(math.Ceil(retryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
			response.Fail(w, http.StatusTooManyRequests, response.CodeRateLimited, "Too many requests. Please try again later.")
			return
		}

		next(w, r)
	}
}

// getClientIP extracts the client IP. Forwarding headers are client-controlled
// unless a proxy rewrites them, so they are only read when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
