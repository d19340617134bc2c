package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/kursadbilgin/expiry-notifier/internal/app"
	"github.com/kursadbilgin/expiry-notifier/internal/config"
	"github.com/kursadbilgin/expiry-notifier/internal/observability"
	"github.com/kursadbilgin/expiry-notifier/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "expiry-notifier-scheduler")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	services, err := app.Build(cfg, logger)
	if err != nil {
		logger.Fatal("service initialization failed", zap.Error(err))
	}
	defer services.Close()

	var scheduler *service.Scheduler
	if cfg.SchedulerPushEnabled {
		scheduler, err = service.NewScheduler(services.Notifications, services.Pusher, cfg.SchedulerInterval(), logger)
	} else {
		scheduler, err = service.NewScheduler(services.Notifications, nil, cfg.SchedulerInterval(), logger)
	}
	if err != nil {
		logger.Fatal("scheduler initialization failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("expiry-notifier scheduler started",
		zap.Duration("interval", cfg.SchedulerInterval()),
		zap.Bool("pushEnabled", cfg.SchedulerPushEnabled),
	)
	if err := scheduler.Start(ctx); err != nil {
		logger.Error("scheduler exited with error", zap.Error(err))
	}
	logger.Info("expiry-notifier scheduler stopped")
}
