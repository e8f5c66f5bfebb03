package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/routes"
	ucBooking "github.com/BruksfildServices01/booking-engine/internal/usecase/booking"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before the exit code is set.
func run() error {

	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if logging.IsProduction(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🔧 STORAGE
	// ======================================================
	var (
		repo domain.Repository
		db   *gorm.DB
		sink audit.Sink
	)

	switch cfg.Storage {
	case config.StorageMemory:
		mem := infraRepo.NewMemoryRepository()
		seedDemo(mem, logger)
		repo = mem
		sink = audit.NewLogSink(logger)
	default:
		db, err = dbpkg.NewDB(cfg, logger)
		if err != nil {
			logger.Error("database unavailable", zap.Error(err))
			return fmt.Errorf("open database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer func() { _ = sqlDB.Close() }()
		}
		repo = infraRepo.NewAppointmentGormRepository(db)
		sink = audit.New(db)
	}

	dispatcher := audit.NewDispatcher(sink, logger)
	defer dispatcher.Close()

	// ======================================================
	// 🔒 LOCKER
	// ======================================================
	var locker domain.Locker = lock.NewLocalLocker(cfg.LockWait)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("redis unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			return fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, cfg.LockWait, logger)
		logger.Info("using redis locker", zap.String("addr", cfg.RedisAddr))
	}

	if cfg.ProcessLocalLocking() {
		logger.Warn("REDIS_ADDR not set: holds are serialized per process only; set REDIS_ADDR when running more than one replica")
	}

	// ======================================================
	// 🧹 HOLD SWEEPER
	// ======================================================
	m := metrics.NewBookingMetrics(nil)

	sweeper := ucBooking.NewHoldSweeper(ucBooking.Deps{
		Repo:    repo,
		Locker:  locker,
		Logger:  logger,
		Metrics: m,
	}, cfg.HoldSweepInterval)
	go sweeper.Run(ctx)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Infra{
		Config:  cfg,
		Repo:    repo,
		Locker:  locker,
		Audit:   dispatcher,
		Logger:  logger,
		Metrics: m,
		DB:      db,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()), zap.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
