package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Templates TemplatesConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Upstream  UpstreamConfig
	Logger    LoggerConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host        string `validate:"required"`
	Port        int    `validate:"min=1,max=65535"`
	RoutePrefix string `validate:"required,startswith=/"`
	AdminPrefix string `validate:"required,startswith=/,nefield=RoutePrefix"`
}

type TemplatesConfig struct {
	Root       string `validate:"required"`
	DefaultSet string `validate:"required"`
}

const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

type CacheConfig struct {
	Backend   string `validate:"oneof=file redis none"`
	Dir       string `validate:"required_if=Backend file"`
	InstallID string `validate:"required,excludes=/"`
	MaxAge    time.Duration
}

type RedisConfig struct {
	URL string
	TTL time.Duration
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int `validate:"min=1"`
}

type UpstreamConfig struct {
	URL     string `validate:"omitempty,url"`
	Timeout time.Duration
}

type LoggerConfig struct {
	Level      string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format     string `validate:"oneof=json text"`
	File       string
	MaxSizeMB  int `validate:"min=0"`
	MaxBackups int `validate:"min=0"`
	MaxAgeDays int `validate:"min=0"`
}

type MetricsConfig struct {
	Enabled bool
	Path    string `validate:"required,startswith=/"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ROUTE_PREFIX", "/api/etemplate.php")
	v.SetDefault("ADMIN_ROUTE_PREFIX", "/api/v1/etemplate")
	v.SetDefault("TEMPLATE_ROOT", ".")
	v.SetDefault("TEMPLATE_DEFAULT_SET", "default")
	v.SetDefault("CACHE_BACKEND", CacheBackendFile)
	v.SetDefault("CACHE_DIR", filepath.Join(os.TempDir(), "egw_cache"))
	v.SetDefault("CACHE_INSTALL_ID", "default")
	v.SetDefault("CACHE_MAX_AGE", "24h")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_TTL", "0s")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 4)
	v.SetDefault("UPSTREAM_URL", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("LOGGER_MAX_AGE_DAYS", 28)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")

	// Env
	v.AutomaticEnv()

	upstreamTimeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		upstreamTimeout = 30 * time.Second
	}
	maxAge, err := time.ParseDuration(v.GetString("CACHE_MAX_AGE"))
	if err != nil {
		maxAge = 24 * time.Hour
	}
	redisTTL, err := time.ParseDuration(v.GetString("REDIS_TTL"))
	if err != nil {
		redisTTL = 0
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("SERVER_HOST"),
			Port:        v.GetInt("SERVER_PORT"),
			RoutePrefix: v.GetString("ROUTE_PREFIX"),
			AdminPrefix: v.GetString("ADMIN_ROUTE_PREFIX"),
		},
		Templates: TemplatesConfig{
			Root:       v.GetString("TEMPLATE_ROOT"),
			DefaultSet: v.GetString("TEMPLATE_DEFAULT_SET"),
		},
		Cache: CacheConfig{
			Backend:   v.GetString("CACHE_BACKEND"),
			Dir:       v.GetString("CACHE_DIR"),
			InstallID: v.GetString("CACHE_INSTALL_ID"),
			MaxAge:    maxAge,
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
			TTL: redisTTL,
		},
		Database: DatabaseConfig{
			URL:          v.GetString("DATABASE_URL"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
		},
		Upstream: UpstreamConfig{
			URL:     v.GetString("UPSTREAM_URL"),
			Timeout: upstreamTimeout,
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOGGER_MAX_AGE_DAYS"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Redis.URL == "" {
		return fmt.Errorf("invalid config: REDIS_URL is required for the redis cache backend")
	}
	return nil
}
