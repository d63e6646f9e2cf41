package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 CONTACTDESK_DATABASE_DSN
const EnvPrefix = "CONTACTDESK"

// Config 应用配置
type Config struct {
	Env        string           `mapstructure:"env"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type ServerConfig struct {
	PublicPort       int           `mapstructure:"public_port"`
	AdminPort        int           `mapstructure:"admin_port"`
	Mode             string        `mapstructure:"mode"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes     int64         `mapstructure:"max_body_bytes"`
	TrustedProxies   int           `mapstructure:"trusted_proxies"`
	CORSOrigins      []string      `mapstructure:"cors_origins"`
	PublicModeration bool          `mapstructure:"public_moderation"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// RateLimitConfig 限流配置；Backend 为 memory 或 redis
type RateLimitConfig struct {
	Backend     string        `mapstructure:"backend"`
	Window      time.Duration `mapstructure:"window"`
	SubmitMax   int           `mapstructure:"submit_max"`
	APIMax      int           `mapstructure:"api_max"`
	GlobalRPS   float64       `mapstructure:"global_rps"`
	GlobalBurst int           `mapstructure:"global_burst"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AdminConfig 管理端 Basic Auth；PasswordHash (bcrypt) 优先于明文 Password
type AdminConfig struct {
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
	Realm        string `mapstructure:"realm"`
}

type PaginationConfig struct {
	PublicDefault int `mapstructure:"public_default"`
	AdminDefault  int `mapstructure:"admin_default"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// NotifyConfig 新留言通知；NATSURL 为空时不启用
type NotifyConfig struct {
	NATSURL   string `mapstructure:"nats_url"`
	Subject   string `mapstructure:"subject"`
	QueueSize int    `mapstructure:"queue_size"`
	Workers   int    `mapstructure:"workers"`
}

// CacheConfig 统计缓存；StatsTTL 为 0 时不启用，启用时使用 redis 配置
type CacheConfig struct {
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("server.public_port", 3001)
	v.SetDefault("server.admin_port", 3002)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.trusted_proxies", 0)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.public_moderation", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/contacts.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.file", "")
	v.SetDefault("log.compress", false)

	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.window", 15*time.Minute)
	v.SetDefault("ratelimit.submit_max", 5)
	v.SetDefault("ratelimit.api_max", 100)
	v.SetDefault("ratelimit.global_rps", 50)
	v.SetDefault("ratelimit.global_burst", 100)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("admin.user", "admin")
	v.SetDefault("admin.password", "change-this-password")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.realm", "Admin Panel")

	v.SetDefault("pagination.public_default", 10)
	v.SetDefault("pagination.admin_default", 20)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.service_name", "contact-desk")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("notify.nats_url", "")
	v.SetDefault("notify.subject", "contact.messages.created")
	v.SetDefault("notify.queue_size", 1024)
	v.SetDefault("notify.workers", 2)

	v.SetDefault("cache.stats_ttl", 0)
}

// Load 读取配置：默认值 < 配置文件 < 环境变量。
// path 为空时在 ./config 与当前目录查找 config.yaml，找不到则只用默认值与环境变量。
func Load(path string) (*Config, error) {
	// .env 可选
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server mode %q", c.Server.Mode)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported ratelimit backend %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("ratelimit.window must be positive")
	}
	if c.RateLimit.SubmitMax <= 0 || c.RateLimit.APIMax <= 0 {
		return errors.New("ratelimit ceilings must be positive")
	}
	if c.Cache.StatsTTL < 0 {
		return errors.New("cache.stats_ttl must not be negative")
	}
	if c.Admin.User == "" || (c.Admin.Password == "" && c.Admin.PasswordHash == "") {
		return errors.New("admin credentials are required")
	}
	return nil
}
