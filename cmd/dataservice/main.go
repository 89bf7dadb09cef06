package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shiftsched/workforce/config"
	"github.com/shiftsched/workforce/internal/cache"
	"github.com/shiftsched/workforce/internal/health"
	"github.com/shiftsched/workforce/internal/infrastructure/postgres"
	ctxlog "github.com/shiftsched/workforce/internal/log"
	"github.com/shiftsched/workforce/internal/metrics"
	"github.com/shiftsched/workforce/internal/resolver"
	httptransport "github.com/shiftsched/workforce/internal/transport/http"
	"github.com/shiftsched/workforce/internal/transport/http/handler"
	"github.com/shiftsched/workforce/internal/usecase"
)

func main() {
	cfg, err := config.LoadDataService()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, int32(cfg.DatabaseMaxConns))
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()
	logger.Info("db connected")

	redisCache, err := cache.NewRedisCache(cfg.CacheURL, logger)
	if err != nil {
		stop()
		log.Fatalf("cache: %v", err)
	}
	defer func() { _ = redisCache.Close() }()

	groupRepo := postgres.NewGroupRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	staffRepo := postgres.NewStaffRepository(pool)

	groupResolver := resolver.New(groupRepo, membershipRepo, staffRepo, redisCache, logger)
	resolvedMembersUsecase := usecase.NewResolvedMembersUsecase(groupResolver)
	resolvedMembersHandler := handler.NewResolvedMembersHandler(resolvedMembersUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{
		"postgres": pool,
		"cache":    redisCache,
	}, logger, prometheus.DefaultRegisterer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewDataServiceRouter(logger, checker, resolvedMembersHandler),
	}
	metricsSrv := metrics.NewServer(":" + cfg.MetricsPort)

	go func() {
		logger.Info("data service started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
