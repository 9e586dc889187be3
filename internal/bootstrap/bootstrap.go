// Package bootstrap wires the template service from configuration. The
// server and the CLI share it so both read and fill the same cache.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"etemplate-service/internal/adapters/secondary/filesystem"
	"etemplate-service/internal/adapters/secondary/postgres"
	"etemplate-service/internal/adapters/secondary/redis"
	"etemplate-service/internal/adapters/secondary/upstream"
	"etemplate-service/internal/config"
	output "etemplate-service/internal/core/ports/output"
	"etemplate-service/internal/core/services"
	"etemplate-service/internal/core/transform"
)

// App holds the wired service and the connections behind it.
type App struct {
	TemplateSvc      *services.TemplateService
	CustomizationSvc *services.CustomizationService
	Pool             *pgxpool.Pool
	Redis            *goredis.Client
}

// New connects the optional backends and builds the template service.
func New(ctx context.Context, cfg *config.Config, recorder output.Recorder) (*App, error) {
	app := &App{}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	app.Pool = pool

	// Secondary Adapters (sources in lookup order)
	var sources []output.TemplateSource
	var customizations output.CustomizationStore
	if pool != nil {
		repo := postgres.NewCustomizationRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			app.Close()
			return nil, err
		}
		sources = append(sources, repo)
		customizations = repo
	}
	sources = append(sources, filesystem.NewTemplateSource(cfg.Templates.Root))
	if cfg.Upstream.URL != "" {
		sources = append(sources, upstream.NewTemplateSource(cfg.Upstream.URL, cfg.Upstream.Timeout))
		log.WithField("url", cfg.Upstream.URL).Info("upstream template source enabled")
	}

	var cache output.CacheStore
	switch cfg.Cache.Backend {
	case config.CacheBackendFile:
		cache = filesystem.NewCacheStore(cfg.Cache.Dir)
	case config.CacheBackendRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = client
		cache = redis.NewCacheStore(client, cfg.Redis.TTL)
	case config.CacheBackendNone:
		log.Info("template cache disabled")
	default:
		app.Close()
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	// Core Services
	pipeline := transform.New()
	app.TemplateSvc = services.NewTemplateService(sources, cache, pipeline, recorder, services.TemplateServiceConfig{
		InstallID:       cfg.Cache.InstallID,
		DefaultSet:      cfg.Templates.DefaultSet,
		PipelineModTime: PipelineModTime(),
	})
	app.CustomizationSvc = services.NewCustomizationService(customizations, cache, pipeline, cfg.Cache.InstallID)

	log.WithFields(log.Fields{
		"sources": len(sources),
		"cache":   cfg.Cache.Backend,
	}).Info("template service initialized")

	return app, nil
}

// Health pings the optional backends.
func (a *App) Health(ctx context.Context) error {
	if a.Pool != nil {
		if err := a.Pool.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// PipelineModTime is the modification time of the running binary. A new
// build changes the rewrite rules, so cache entries older than it are
// stale.
func PipelineModTime() time.Time {
	exe, err := os.Executable()
	if err != nil {
		log.WithError(err).Warn("cannot locate executable, cache never invalidated by upgrades")
		return time.Time{}
	}
	fi, err := os.Stat(exe)
	if err != nil {
		log.WithError(err).Warn("cannot stat executable, cache never invalidated by upgrades")
		return time.Time{}
	}
	return fi.ModTime()
}
