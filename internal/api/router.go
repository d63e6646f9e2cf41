package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/contact-desk/config"
	_ "github.com/d60-Lab/contact-desk/docs"
	"github.com/d60-Lab/contact-desk/internal/api/handler"
	"github.com/d60-Lab/contact-desk/internal/api/middleware"
	"github.com/d60-Lab/contact-desk/internal/ratelimit"
	"github.com/d60-Lab/contact-desk/internal/service"
	"github.com/d60-Lab/contact-desk/pkg/reporter"
)

// 同一套留言管理处理器的两个挂载点
var moderationMounts = []string{"/api", "/admin-api"}

// Deps 路由依赖
type Deps struct {
	Config            *config.Config
	ContactService    service.ContactService
	ModerationService service.ModerationService
	SubmitLimiter     *ratelimit.Limiter
	APILimiter        *ratelimit.Limiter
}

func newEngine(cfg *config.Config, serverName string) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		reporter.Middleware(),
		otelgin.Middleware(cfg.Tracing.ServiceName+"-"+serverName),
		middleware.RequestID(),
		middleware.ResolveClientIP(cfg.Server.TrustedProxies),
		middleware.AccessLog(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Server.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	)
	r.GET("/health", handler.Health)
	return r
}

// NewPublicRouter 公开站点：验证题、提交留言、健康检查；
// 可选地不经认证暴露留言管理接口（server.public_moderation）
func NewPublicRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := newEngine(cfg, "public")

	contact := handler.NewContactHandler(d.ContactService)
	pub := r.Group("/api")
	pub.GET("/captcha", contact.Captcha)
	pub.POST("/contact",
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
		middleware.RateLimit(d.SubmitLimiter, cfg.Server.TrustedProxies, middleware.MsgSubmitLimited),
		contact.Submit,
	)

	if cfg.Server.PublicModeration {
		messages := handler.NewMessageHandler(d.ModerationService, cfg.Pagination.PublicDefault)
		for _, mount := range moderationMounts {
			messages.Register(r.Group(mount))
		}
	}
	return r
}

// NewAdminRouter 管理端：Basic 认证 + 每 IP 限流 + 全局令牌桶
func NewAdminRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	r := newEngine(cfg, "admin")

	auth, err := middleware.BasicAuth(cfg.Admin)
	if err != nil {
		return nil, err
	}

	protected := []gin.HandlerFunc{
		middleware.RateLimit(d.APILimiter, cfg.Server.TrustedProxies, middleware.MsgAPILimited),
		auth,
		middleware.Throttle(cfg.RateLimit.GlobalRPS, cfg.RateLimit.GlobalBurst),
	}

	messages := handler.NewMessageHandler(d.ModerationService, cfg.Pagination.AdminDefault)
	for _, mount := range moderationMounts {
		g := r.Group(mount, protected...)
		messages.Register(g)
	}

	r.GET("/swagger/*any", append(protected[:2:2], ginSwagger.WrapHandler(swaggerFiles.Handler))...)
	return r, nil
}
