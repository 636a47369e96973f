package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterInfo is a struct that holds a rate limiter and the last time it was seen.
type limiterInfo struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitByIP applies rate limiting to requests per IP address.
func RateLimitByIP(rps int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	return rateLimitBy(func(c *gin.Context) string { return c.ClientIP() }, rate.Limit(rps), rps, cleanupInterval, expiration)
}

// RateLimitByUser limits authenticated requests per user, at perMinute
// requests per minute with a burst of burst. Requests without a user fall
// back to the client IP.
func RateLimitByUser(perMinute, burst int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	key := func(c *gin.Context) string {
		if userID := c.GetString("user_id"); userID != "" {
			return "user:" + userID
		}
		return "ip:" + c.ClientIP()
	}
	return rateLimitBy(key, rate.Every(time.Minute/time.Duration(perMinute)), burst, cleanupInterval, expiration)
}

func rateLimitBy(keyFn func(c *gin.Context) string, limit rate.Limit, burst int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	var limiters sync.Map

	// Cleanup goroutine
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			limiters.Range(func(key, value interface{}) bool {
				if time.Since(value.(*limiterInfo).lastSeen) > expiration {
					limiters.Delete(key)
				}
				return true
			})
		}
	}()

	return func(c *gin.Context) {
		// Use LoadOrStore to ensure thread safety
		actual, _ := limiters.LoadOrStore(keyFn(c), &limiterInfo{
			limiter:  rate.NewLimiter(limit, burst),
			lastSeen: time.Now(),
		})

		info := actual.(*limiterInfo)
		info.lastSeen = time.Now()

		if !info.limiter.Allow() {
			// Too many requests
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
