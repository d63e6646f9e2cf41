package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/contact-desk/internal/ratelimit"
	"github.com/d60-Lab/contact-desk/pkg/logger"
	"github.com/d60-Lab/contact-desk/pkg/response"
)

// ClientIPKey gin 上下文中的客户端地址
const ClientIPKey = "client_ip"

const (
	MsgSubmitLimited = "Too many contact requests from this IP, please try again later."
	MsgAPILimited    = "Too many requests from this IP, please try again later."
)

// ClientIP 从 X-Forwarded-For 右侧第 trustedProxies 个位置取真实地址，防伪造。
// trustedProxies 为 0 时直接使用对端地址。
func ClientIP(r *http.Request, trustedProxies int) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && trustedProxies > 0 {
		parts := strings.Split(xff, ",")
		idx := len(parts) - trustedProxies
		if idx >= 0 && idx < len(parts) {
			if ip := strings.TrimSpace(parts[idx]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ResolveClientIP 解析一次客户端地址并放入上下文
func ResolveClientIP(trustedProxies int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClientIPKey, ClientIP(c.Request, trustedProxies))
		c.Next()
	}
}

// RateLimit 按客户端地址限流，输出 RateLimit-* 标准头；后端不可用时放行并告警
func RateLimit(l *ratelimit.Limiter, trustedProxies int, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetString(ClientIPKey)
		if ip == "" {
			ip = ClientIP(c.Request, trustedProxies)
			c.Set(ClientIPKey, ip)
		}

		res, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				zap.String("limiter", l.Name()), zap.String("ip", ip), zap.Error(err))
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("RateLimit-Reset", ceilSeconds(res.ResetIn))

		if !res.Allowed {
			h.Set("Retry-After", ceilSeconds(res.ResetIn))
			logger.Info("rate limited", zap.String("limiter", l.Name()), zap.String("ip", ip))
			response.TooManyRequests(c, message)
			return
		}
		c.Next()
	}
}

func ceilSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
