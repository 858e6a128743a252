package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type CacheConfig struct {
	MaxAge               time.Duration
	Private              bool
	StaleWhileRevalidate time.Duration
	Vary                 []string
}

// DefaultCacheConfig suits the public service catalog.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge:               5 * time.Minute,
		StaleWhileRevalidate: time.Minute,
		Vary:                 []string{"Accept", "Accept-Language"},
	}
}

// Cache sets Cache-Control on GET responses and no-store on other methods.
func Cache(config CacheConfig) gin.HandlerFunc {
	directives := []string{"public"}
	if config.Private {
		directives[0] = "private"
	}
	if config.MaxAge > 0 {
		directives = append(directives, fmt.Sprintf("max-age=%d", int(config.MaxAge.Seconds())))
	}
	if config.StaleWhileRevalidate > 0 {
		directives = append(directives, fmt.Sprintf("stale-while-revalidate=%d", int(config.StaleWhileRevalidate.Seconds())))
	}
	cacheControl := strings.Join(directives, ", ")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		c.Header("Cache-Control", cacheControl)
		if len(config.Vary) > 0 {
			c.Header("Vary", strings.Join(config.Vary, ", "))
		}
		c.Next()
	}
}
