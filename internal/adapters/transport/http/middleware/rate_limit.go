package middleware

import (
	"net"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// NewRateLimitPerIP ограничивает RPS для Gin-ручек c LRU-кэшем IP.
// Записи живут entryTTL и вытесняются автоматически.
func NewRateLimitPerIP(
	limit, burst int,
	cacheSize int,
	entryTTL time.Duration,
) gin.HandlerFunc {

	visitors := lru.NewLRU[string, *rate.Limiter](cacheSize, nil, entryTTL)

	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr // fallback
		}

		lim, found := visitors.Get(host)
		if !found {
			lim = rate.NewLimiter(rate.Limit(limit), burst)
			visitors.Add(host, lim)
		}

		if !lim.Allow() {
			c.AbortWithStatusJSON(429, gin.H{"success": false, "message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
