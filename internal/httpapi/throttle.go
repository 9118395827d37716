package httpapi

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"jwt-auth/pkg/logger"
	"jwt-auth/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const loginThrottlePrefix = "throttle:login:"

// LoginThrottle limits login attempts per client IP within a fixed window.
// Redis errors let the request through.
func LoginThrottle(rdb redis.Scripter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, err := utils.AllowInWindow(c.Request.Context(), rdb, loginThrottlePrefix+ip, limit, window)
		if err != nil {
			logger.FromGin(c).Warn("login throttle unavailable", "err", err)
			c.Next()
			return
		}
		if !ok {
			logger.FromGin(c).Info("login throttled", "client_ip", ip)
			c.Header("Retry-After", retryAfter(window))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
			return
		}
		c.Next()
	}
}

// retryAfter renders window in whole seconds, never below one.
func retryAfter(window time.Duration) string {
	secs := int(math.Ceil(window.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
