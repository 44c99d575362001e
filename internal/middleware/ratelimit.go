package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	redisc "github.com/nitaidalal/blog-core/internal/pkg/redis"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
)

// RateLimit enforces a fixed-window per-IP rate limit for anonymous
// requests. Authenticated users are exempt. Redis failures fail open.
func RateLimit(rc *redisc.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("blog:rate_limit:%s:%d", ip, time.Now().Unix())

		count, err := rc.Incr(ctx, key, rateLimitWindow+time.Second)
		if err != nil {
			c.Next()
			return
		}

		if count > rateLimitMax {
			c.Header("Retry-After", "1")
			response.TooManyRequests(c, "Too many requests, please slow down.")
			return
		}

		c.Next()
	}
}
