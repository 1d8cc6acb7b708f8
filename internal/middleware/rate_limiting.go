package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware rejects clients that exceed their bucket with 429.
// Asset requests are never limited.
func RateLimitMiddleware(manager *RateLimitManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}

		if !manager.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, "too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	path := r.URL.Path
	for _, prefix := range longLivedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	switch path {
	case "/favicon.ico", "/health":
		return true
	}

	return false
}
