package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/igdm-router/internal/api/router"
	"github.com/wolfman30/igdm-router/internal/app"
	"github.com/wolfman30/igdm-router/internal/app/bootstrap"
	"github.com/wolfman30/igdm-router/internal/bot"
	"github.com/wolfman30/igdm-router/internal/channels/instagram"
	appconfig "github.com/wolfman30/igdm-router/internal/config"
	"github.com/wolfman30/igdm-router/internal/delivery"
	httpmiddleware "github.com/wolfman30/igdm-router/internal/http/middleware"
	"github.com/wolfman30/igdm-router/internal/observability/metrics"
	"github.com/wolfman30/igdm-router/internal/session"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

const (
	maintenanceInterval = 5 * time.Minute
	idleEntryMaxAge     = 30 * time.Minute
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting igdm-router API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_backend", cfg.SessionBackend,
	)
	for _, key := range cfg.MissingRequired() {
		logger.Warn("required environment variable not set", "key", key)
	}
	if cfg.AppURL != "" {
		logger.Info("configure the Meta webhook", "url", cfg.WebhookURL(), "verify_token_set", cfg.VerifyToken != "")
	}

	ctx := context.Background()
	metricsHandler, botMetrics := setupMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	sessions, sessionCloser, err := bootstrap.BuildSessionStore(cfg, redisClient, logger)
	if err != nil {
		logger.Error("failed to build session store", "error", err)
		os.Exit(1)
	}
	processed := bootstrap.BuildProcessedStore(redisClient)

	botRouter, err := bootstrap.BuildRouter(cfg, botMetrics, logger)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	// The adapter needs the pipeline's Enqueue and the pipeline needs the
	// adapter's sender, so the callback is bound after both exist.
	var pipeline *app.Pipeline
	adapter := instagram.NewAdapter(instagram.Config{
		PageAccessToken: cfg.PageAccessToken,
		AppSecret:       cfg.AppSecret,
		VerifyToken:     cfg.VerifyToken,
		GraphAPIBase:    cfg.GraphAPIURL(),
	}, func(ctx context.Context, ev bot.InboundEvent) { pipeline.Enqueue(ctx, ev) }, logger)

	sequencer := delivery.NewSequencer(adapter, botMetrics, logger, delivery.WithStagger(cfg.DeliveryStagger))
	locker := session.NewLocker()
	pipeline, err = app.NewPipeline(app.Deps{
		Router:    botRouter,
		Sessions:  sessions,
		Locker:    locker,
		Processed: processed,
		Profiles:  adapter,
		Deliverer: sequencer,
		Metrics:   botMetrics,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	limiter := buildRateLimiter(cfg)
	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        adapter,
		MetricsHandler: metricsHandler,
		RateLimiter:    limiter,
	})

	maintenanceCtx, stopMaintenance := context.WithCancel(ctx)
	defer stopMaintenance()
	go runMaintenance(maintenanceCtx, maintenanceInterval, locker, limiter)

	srv := newServer(cfg.Port, r)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	stopMaintenance()

	// Drain in-flight events, then the messages they scheduled.
	pipeline.Wait()
	sequencer.Wait()

	closeAll(logger, sessionCloser, redisCloser(redisClient))

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) (http.Handler, *metrics.BotMetrics) {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), metrics.NewBotMetrics(reg)
}

func buildRateLimiter(cfg *appconfig.Config) *httpmiddleware.RateLimiter {
	if cfg == nil || cfg.WebhookRateLimit <= 0 {
		return nil
	}
	return httpmiddleware.NewRateLimiter(float64(cfg.WebhookRateLimit), cfg.WebhookRateBurst)
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func runMaintenance(ctx context.Context, every time.Duration, locker *session.Locker, limiter *httpmiddleware.RateLimiter) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(locker, limiter)
		}
	}
}

func sweep(locker *session.Locker, limiter *httpmiddleware.RateLimiter) {
	if locker != nil {
		locker.Cleanup(idleEntryMaxAge)
	}
	if limiter != nil {
		limiter.Cleanup(idleEntryMaxAge)
	}
}

func redisCloser(c *redis.Client) io.Closer {
	if c == nil {
		return nil
	}
	return c
}

func closeAll(logger *logging.Logger, closers ...io.Closer) {
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}
