package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/contact-desk/pkg/response"
)

// Throttle 全局令牌桶，保护管理端数据库；rps <= 0 时不限制
func Throttle(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			response.TooManyRequests(c, "Server is busy, please try again later.")
			return
		}
		c.Next()
	}
}
