package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	PageCacheControl  = "public, max-age=3600"
	AssetCacheControl = "public, max-age=31536000"
)

var longLivedPrefixes = []string{"/static/", "/images/"}

// CacheControlMiddleware sets Cache-Control on every response: assets are
// cacheable for a year, everything else for an hour. Handlers that run
// later may still override it.
func CacheControlMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", cacheControlFor(c.Request.URL.Path))
		c.Next()
	}
}

func cacheControlFor(path string) string {
	for _, prefix := range longLivedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return AssetCacheControl
		}
	}
	return PageCacheControl
}
