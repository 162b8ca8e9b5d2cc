// ABOUTME: sync-hub entrypoint wiring config, database, Redis, and the sync services
// ABOUTME: Runs the HTTP control surface and the orchestrator until SIGTERM

package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"sync-hub/config"
	"sync-hub/driver"
	"sync-hub/handler"
	"sync-hub/models"
	"sync-hub/repository"
	"sync-hub/service"
)

func main() {
	healthCheck := flag.Bool("health-check", false, "Perform health check against the running service and exit")
	flag.Parse()

	// Local development convenience; absent .env is not an error.
	_ = godotenv.Load()

	logger := setupLogger()

	if *healthCheck {
		performHealthCheck(logger)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("sync-hub starting",
		"service", cfg.ServiceName,
		"http_addr", cfg.HTTPAddr,
		"pull_interval", cfg.Sync.PullInterval,
		"push_interval", cfg.Sync.PushInterval)

	if err := run(cfg, logger); err != nil {
		logger.Error("sync-hub exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("sync-hub shut down cleanly")
}

func setupLogger() *slog.Logger {
	var level slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		return err
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "db", cfg.Database.Name)

	// Redis backs write queue persistence; a failure here only degrades the
	// write queue to fallback mode, the service still starts.
	redisOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(redisOpt)
	defer rdb.Close()

	// Repositories
	articleRepo := repository.NewPostgreSQLArticleRepository(db, logger)
	subRepo := repository.NewPostgreSQLSubscriptionRepository(db, logger)
	queueRepo := repository.NewPostgreSQLSyncQueueRepository(db, logger)
	runRepo := repository.NewPostgreSQLSyncRunRepository(db, logger)
	stateRepo := repository.NewPostgreSQLSyncStateRepository(db, logger)

	// Rate limit tracker feeds off every API response's usage headers.
	tracker := service.NewRateLimitTracker(service.TrackerConfig{
		Zone1DailyLimit:     cfg.RateLimit.Zone1DailyLimit,
		Zone2DailyLimit:     cfg.RateLimit.Zone2DailyLimit,
		SafetyBufferPercent: cfg.RateLimit.SafetyBufferPercent,
	}, logger)

	var monitor *service.HealthMonitor
	apiClient := driver.NewAPIClient(
		cfg.Inoreader.BaseURL,
		&driver.StaticTokenSource{Token: cfg.Inoreader.AccessToken},
		tracker,
		logger,
		driver.WithCallObserver(func(endpoint string, duration time.Duration, err error) {
			if monitor != nil {
				monitor.RecordAPICall(endpoint, duration, err)
			}
		}),
	)

	monitor = service.NewHealthMonitor(service.HealthMonitorConfig{
		BacklogThreshold:   cfg.Health.BacklogThreshold,
		ErrorRateThreshold: cfg.Health.ErrorRateThreshold,
	}, db, apiClient, queueRepo, runRepo, logger)

	// Sync workers
	pullSync := service.NewPullSyncService(
		apiClient, articleRepo, subRepo, queueRepo, stateRepo,
		tracker, cfg.Sync.MaxArticlesPerPage, logger)
	pushSync := service.NewPushSyncService(
		queueRepo, apiClient, tracker,
		models.DefaultRetryPolicy(), cfg.Sync.PushBatchSize, cfg.Sync.CompletedRetention, logger)

	orchestrator := service.NewSyncOrchestrator(service.OrchestratorConfig{
		PullInterval: cfg.Sync.PullInterval,
		PushInterval: cfg.Sync.PushInterval,
	}, pullSync, pushSync, queueRepo, runRepo, logger)
	orchestrator.SetRunObserver(monitor.RecordSyncRun)

	// Write path
	writeQueue := service.NewWriteQueueService(rdb, cfg.WriteQueue.Capacity, logger)
	if err := writeQueue.Restore(ctx); err != nil {
		logger.Warn("Write queue restore failed, starting empty", "error", err)
	}
	defer writeQueue.Close()

	mutations := service.NewLocalMutationService(
		writeQueue, articleRepo, queueRepo, cfg.WriteQueue.DebounceWindow, logger)
	defer mutations.Shutdown()

	// HTTP control surface
	mux := http.NewServeMux()
	handler.NewSyncHandler(orchestrator, tracker, logger).RegisterRoutes(mux)
	handler.NewHealthHandler(monitor, logger).RegisterRoutes(mux)
	handler.NewArticleHandler(mutations, writeQueue, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	orchestrator.Start()

	// Block until SIGTERM or a fatal server error.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("HTTP server failed", "error", err)
		orchestrator.Stop()
		return err
	}

	// Graceful shutdown: stop scheduling, flush pending local mutations,
	// then drain HTTP.
	orchestrator.Stop()
	mutations.Flush()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", "error", err)
	}

	return nil
}
