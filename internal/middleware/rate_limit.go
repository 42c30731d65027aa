package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type window struct {
	start time.Time
	count int
}

type limiter struct {
	mu        sync.Mutex
	perMinute int
	windows   map[string]*window
	lastSweep time.Time
}

func newLimiter(perMinute int) *limiter {
	return &limiter{
		perMinute: perMinute,
		windows:   make(map[string]*window),
	}
}

func (l *limiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Expired windows are swept at most once a minute so the map does not
	// grow with every client IP ever seen.
	if now.Sub(l.lastSweep) >= time.Minute {
		for key, w := range l.windows {
			if now.Sub(w.start) >= time.Minute {
				delete(l.windows, key)
			}
		}
		l.lastSweep = now
	}

	w, ok := l.windows[ip]
	if !ok || now.Sub(w.start) >= time.Minute {
		w = &window{start: now}
		l.windows[ip] = w
	}
	w.count++
	return w.count <= l.perMinute
}

// RateLimit returns middleware enforcing a fixed-window per-client-IP limit.
func RateLimit(perMinute int) gin.HandlerFunc {
	l := newLimiter(perMinute)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
