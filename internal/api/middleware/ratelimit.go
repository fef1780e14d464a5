package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/careerforge/backend/internal/utils"
)

// RateLimit caps request throughput per caller. Keyed by user when the
// context carries one, by client IP otherwise, so it must be registered
// after JWTAuth on authenticated routes. Limiters live for the process
// lifetime; the keyspace is bounded by the active user population.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = map[string]*rate.Limiter{}
	)

	get := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rps, burst)
			limiters[key] = l
		}
		return l
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		if v, ok := c.Get("user_id"); ok {
			if s, ok := v.(string); ok && s != "" {
				key = s
			}
		}

		if !get(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    utils.CodeUnavailable,
				"message": "too many requests",
			})
			return
		}

		c.Next()
	}
}
