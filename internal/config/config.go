package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Catalog
	CatalogDir         string
	CatalogStrictSlugs bool

	// Images
	ImageDir           string
	ImageCDNURL        string
	ImageIndexURL      string
	ImageIndexTimeout  time.Duration
	ImageFallback      string
	ImageIndexCacheTTL time.Duration

	// Redis
	EnableRedis bool
	RedisURL    string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Features
	EnableMetrics bool

	// Logging
	LogFile  string
	LogLevel string

	// Site Meta
	SiteName        string
	SiteDescription string
	SiteURL         string
	SitePhone       string
}

func New() *Config {
	c := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:8080")),

		// Catalog
		CatalogDir:         getEnv("CATALOG_DIR", ""),
		CatalogStrictSlugs: getEnvAsBool("CATALOG_STRICT_SLUGS", true),

		// Images
		ImageDir:           getEnv("IMAGE_DIR", "./images"),
		ImageCDNURL:        strings.TrimSuffix(getEnv("IMAGE_CDN_URL", ""), "/"),
		ImageIndexURL:      strings.TrimSuffix(getEnv("IMAGE_INDEX_URL", "http://127.0.0.1:8000"), "/"),
		ImageIndexTimeout:  time.Duration(getEnvAsInt("IMAGE_INDEX_TIMEOUT_MS", 2000)) * time.Millisecond,
		ImageFallback:      getEnv("IMAGE_FALLBACK", "default-image.jpg"),
		ImageIndexCacheTTL: time.Duration(getEnvAsInt("IMAGE_INDEX_CACHE_TTL", 300)) * time.Second,

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", false),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		// Features
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),

		// Logging
		LogFile:  getEnv("LOG_FILE", "app.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Site Meta
		SiteName:        getEnv("SITE_NAME", "Pro Home Services"),
		SiteDescription: getEnv("SITE_DESCRIPTION", "Licensed remodeling, roofing and restoration contractor serving the region."),
		SiteURL:         strings.TrimSuffix(getEnv("SITE_URL", ""), "/"),
		SitePhone:       getEnv("SITE_PHONE", ""),
	}

	return c
}

// Validate reports settings that would leave the site unable to serve.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.IsProduction() && c.ImageCDNURL == "" {
		return fmt.Errorf("IMAGE_CDN_URL is required in production")
	}
	if strings.TrimSpace(c.ImageFallback) == "" {
		return fmt.Errorf("IMAGE_FALLBACK must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
