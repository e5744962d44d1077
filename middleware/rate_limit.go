package middleware

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ReviveTech/revive-backend/errors"
	"github.com/ReviveTech/revive-backend/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// ContactRateLimiter rejects clients whose submission token bucket is empty
// before the request ever reaches the pipeline. Limiting by IP is advisory
// abuse mitigation, not a security boundary; unattributable clients share one
// bucket.
func ContactRateLimiter(limiter *ratelimit.Limiter, burst int, retryAfter time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)

		if !limiter.Allow(ip, time.Now()) {
			c.Header("X-RateLimit-Limit", strconv.Itoa(burst))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))

			_ = c.Error(apperrors.RateLimitExceeded(
				"Too many requests. Please try again later.",
				int(retryAfter.Seconds()),
			))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(burst))
		c.Next()
	}
}

// getClientIP extracts the real client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxies/load
// balancers), then falls back to RemoteAddr.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		// Take the first IP in the chain
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.ClientIP()
}

// ClientIP is the exported variant handlers use to stamp submissions.
func ClientIP(c *gin.Context) string {
	return getClientIP(c)
}
