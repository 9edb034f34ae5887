package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// pruneAbove is the client count past which expired windows are swept.
const pruneAbove = 1024

type clientWindow struct {
	count int
	start time.Time
}

// RateLimiter is a fixed-window counter per client. Each client's window
// starts with its first request.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	rate    int           // requests per window
	window  time.Duration // time window
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		rate:    rate,
		window:  window,
		now:     time.Now,
	}
}

// Allow records one request for key. When the limit is reached it reports
// false and how long until the window resets.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) > pruneAbove {
		for k, w := range l.clients {
			if now.Sub(w.start) >= l.window {
				delete(l.clients, k)
			}
		}
	}

	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.clients[key] = &clientWindow{count: 1, start: now}
		return true, 0
	}
	if w.count >= l.rate {
		return false, l.window - now.Sub(w.start)
	}
	w.count++
	return true, 0
}

// RateLimit middleware limits requests per client. Signed-in users are
// keyed by email, everyone else by IP.
func RateLimit(rate int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(rate, window)

	return func(c *gin.Context) {
		key := GetEmail(c)
		if key == "" {
			key = c.ClientIP()
		}

		ok, retry := limiter.Allow(key)
		if !ok {
			slog.Warn("rate limit exceeded",
				"client", key,
				"request_id", GetRequestID(c),
			)

			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
