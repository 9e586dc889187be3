package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"etemplate-service/internal/adapters/primary/http/handlers"
	"etemplate-service/internal/adapters/primary/http/middleware"
	"etemplate-service/internal/adapters/secondary/prometheus"
	"etemplate-service/internal/bootstrap"
	"etemplate-service/internal/config"
	output "etemplate-service/internal/core/ports/output"
	"etemplate-service/internal/logger"

	"github.com/gin-gonic/gin"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logFile := logger.Init(cfg.Logger)
	defer logFile.Close()

	// Metrics (Optional - based on config)
	registry := promclient.NewRegistry()
	var recorder output.Recorder = output.NopRecorder{}
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = prometheus.NewRecorder(registry)
		log.Info("metrics enabled")
	} else {
		log.Info("metrics disabled")
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	app, err := bootstrap.New(context.Background(), cfg, recorder)
	if err != nil {
		log.Fatalf("init template service: %v", err)
	}
	defer app.Close()

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(app.TemplateSvc, app.CustomizationSvc, recorder, cfg.Cache.MaxAge)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	h.RegisterRoutes(router.Group(cfg.Server.RoutePrefix))
	h.RegisterAdminRoutes(router.Group(cfg.Server.AdminPrefix))

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Health check with backend ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := app.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
