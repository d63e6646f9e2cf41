package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/d60-Lab/contact-desk/config"
	"github.com/d60-Lab/contact-desk/internal/api"
	"github.com/d60-Lab/contact-desk/internal/cache"
	"github.com/d60-Lab/contact-desk/internal/challenge"
	"github.com/d60-Lab/contact-desk/internal/notify"
	"github.com/d60-Lab/contact-desk/internal/ratelimit"
	"github.com/d60-Lab/contact-desk/internal/repository"
	"github.com/d60-Lab/contact-desk/internal/service"
	"github.com/d60-Lab/contact-desk/internal/validation"
	"github.com/d60-Lab/contact-desk/pkg/database"
	"github.com/d60-Lab/contact-desk/pkg/logger"
)

// 要启动的服务
const (
	TargetPublic = "public"
	TargetAdmin  = "admin"
	TargetAll    = "all"
)

// App 组装所有依赖；Close 按逆序释放
type App struct {
	cfg  *config.Config
	db   *gorm.DB
	deps api.Deps

	redis          *redis.Client
	publisher      *notify.Publisher
	stopDispatcher func(context.Context) error
	stopSweeper    context.CancelFunc
}

// New 连接存储、迁移表结构并构建服务
func New(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, db: db}

	if err := database.AutoMigrate(db); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	store, err := a.rateLimitStore()
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	var enq service.Enqueuer
	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			// 通知不是必需的
			logger.Warn("failed to initialize NATS publisher", zap.Error(err))
		} else {
			a.publisher = pub
			d := service.NewNotificationDispatcher(pub, cfg.Notify.QueueSize)
			a.stopDispatcher = d.Start(cfg.Notify.Workers)
			enq = d
		}
	}

	repo := repository.NewMessageRepository(db)
	moderation := service.NewModerationService(repo)
	if cfg.Cache.StatsTTL > 0 {
		rdb, err := a.redisClient()
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		moderation = cache.NewModerationService(moderation, rdb, cfg.Cache.StatsTTL)
	}
	a.deps = api.Deps{
		Config:            cfg,
		ContactService:    service.NewContactService(repo, challenge.NewGenerator(), validation.New(), enq),
		ModerationService: moderation,
		SubmitLimiter:     ratelimit.NewLimiter("submit", store, cfg.RateLimit.SubmitMax, cfg.RateLimit.Window),
		APILimiter:        ratelimit.NewLimiter("api", store, cfg.RateLimit.APIMax, cfg.RateLimit.Window),
	}

	logger.Info("application initialized",
		zap.String("env", cfg.Env),
		zap.String("db", cfg.Database.Driver),
		zap.String("ratelimit", cfg.RateLimit.Backend),
		zap.Bool("notify", a.publisher != nil),
		zap.Duration("stats_cache_ttl", cfg.Cache.StatsTTL),
	)
	return a, nil
}

// redisClient 懒加载共享的 Redis 连接（限流与统计缓存共用）
func (a *App) redisClient() (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", a.cfg.Redis.Addr, err)
	}
	a.redis = rdb
	return rdb, nil
}

func (a *App) rateLimitStore() (ratelimit.Store, error) {
	if a.cfg.RateLimit.Backend == "redis" {
		rdb, err := a.redisClient()
		if err != nil {
			return nil, err
		}
		return ratelimit.NewRedisStore(rdb), nil
	}

	mem := ratelimit.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	a.stopSweeper = cancel
	mem.StartSweeper(ctx, time.Minute)
	return mem, nil
}

// DB 供 CLI 子命令复用连接
func (a *App) DB() *gorm.DB { return a.db }

// Servers 按目标构建 http.Server
func (a *App) Servers(target string) ([]*http.Server, error) {
	var servers []*http.Server
	if target == TargetPublic || target == TargetAll {
		servers = append(servers, a.newServer(a.cfg.Server.PublicPort, api.NewPublicRouter(a.deps)))
	}
	if target == TargetAdmin || target == TargetAll {
		r, err := api.NewAdminRouter(a.deps)
		if err != nil {
			return nil, err
		}
		servers = append(servers, a.newServer(a.cfg.Server.AdminPort, r))
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("unknown server %q (want public|admin|all)", target)
	}
	return servers, nil
}

func (a *App) newServer(port int, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
	}
}

// Run 启动服务并阻塞到 ctx 取消，随后优雅关闭
func (a *App) Run(ctx context.Context, target string) error {
	servers, err := a.Servers(target)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			logger.Info("shutting down server", zap.String("addr", srv.Addr))
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

// Close 释放后台任务与连接
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.stopDispatcher != nil {
		if err := a.stopDispatcher(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.stopSweeper != nil {
		a.stopSweeper()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, database.Close(a.db))
	}
	return errors.Join(errs...)
}
