package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (l *ipLimiter) touch() {
	l.mu.Lock()
	l.lastSeen = time.Now()
	l.mu.Unlock()
}

func (l *ipLimiter) idleSince(cutoff time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeen.Before(cutoff)
}

// RateLimit provides per-IP token-bucket rate limiting.
// r = requests per second, b = burst size. Stale limiters are swept until ctx
// is cancelled.
func RateLimit(ctx context.Context, r rate.Limit, b int) gin.HandlerFunc {
	limiters := &sync.Map{}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-10 * time.Minute)
				limiters.Range(func(k, v interface{}) bool {
					if v.(*ipLimiter).idleSince(cutoff) {
						limiters.Delete(k)
					}
					return true
				})
			case <-ctx.Done():
				return
			}
		}
	}()

	getLimiter := func(ip string) *rate.Limiter {
		v, _ := limiters.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(r, b)})
		il := v.(*ipLimiter)
		il.touch()
		return il.limiter
	}

	return func(c *gin.Context) {
		if !getLimiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
