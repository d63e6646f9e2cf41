package reporter

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/contact-desk/config"
)

// Init 初始化 Sentry；DSN 为空时返回 false，不上报
func Init(cfg config.SentryConfig, env, release string) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	if cfg.Environment != "" {
		env = cfg.Environment
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      env,
		Release:          release,
		SampleRate:       cfg.SampleRate,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// 留言者 IP 不上报
			if event.Request != nil {
				delete(event.Request.Headers, "X-Forwarded-For")
				delete(event.Request.Headers, "X-Real-Ip")
				event.Request.Data = ""
			}
			return event
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}
	return true, nil
}

// Middleware 每个请求一个 Hub；panic 交回 gin.Recovery
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second})
}

// Flush 退出前等待事件发送完成
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
