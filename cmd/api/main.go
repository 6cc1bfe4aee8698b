package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/database"
	"github.com/ins72/mewayz-9913-sub005/internal/job"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/router"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

const (
	dbConnectAttempts = 10
	dbRetryInterval   = 3 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Collab Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("store_driver", cfg.Store.Driver),
	)
	if cfg.Auth.SecretKey == "" {
		logger.Warn("SECRET_KEY is empty, every authenticated request will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewWithRetry(ctx, database.ConfigFrom(cfg.Database), dbConnectAttempts, dbRetryInterval, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		}
	}

	store, broker, closeStore, err := initStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}

	m := metrics.NewWithLogger(logger)

	activityService := service.NewActivityService(store, broker, cfg.Presence, m, logger)
	scheduler, err := job.NewScheduler(logger,
		job.Entry{
			Name:     "activity-trim",
			Schedule: cfg.Jobs.ActivityTrimSchedule,
			Job:      job.NewActivityTrimJob(activityService, logger),
		},
		job.Entry{
			Name:     "metrics-collector",
			Schedule: cfg.Jobs.MetricsCollectorSchedule,
			Job:      job.NewMetricsCollectorJob(store, m, logger),
		},
	)
	if err != nil {
		logger.Fatal("Failed to configure job scheduler", zap.Error(err))
	}
	scheduler.Start()

	r := router.Setup(router.Config{
		DB:             db,
		Store:          store,
		Broker:         broker,
		Logger:         logger,
		Metrics:        m,
		Presence:       cfg.Presence,
		BasePath:       cfg.Server.BasePath,
		CORSOrigins:    cfg.Server.CORSOrigins,
		JWTSecret:      cfg.Auth.SecretKey,
		InternalAPIKey: cfg.Auth.InternalAPIKey,
	})

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// no WriteTimeout: it would cut long-lived websocket streams
	}

	go func() {
		logger.Info("Collab Service started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop()
	if err := broker.Close(); err != nil {
		logger.Warn("Failed to close broker", zap.Error(err))
	}
	if err := closeStore(); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initStore picks the ephemeral-state backend. Both halves share one redis
// client so presence writes and their broadcasts hit the same server.
func initStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, broadcast.Broker, func() error, error) {
	if cfg.Store.Driver == "memory" {
		logger.Warn("Using in-memory store, state is lost on restart and not shared between replicas")
		return cache.NewMemoryStore(), broadcast.NewMemoryBroker(), func() error { return nil }, nil
	}

	rdb, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cache.NewRedisStore(rdb), broadcast.NewRedisBroker(rdb, logger), rdb.Close, nil
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
