package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/expiry-notifier/internal/app"
	"github.com/kursadbilgin/expiry-notifier/internal/auth"
	"github.com/kursadbilgin/expiry-notifier/internal/config"
	"github.com/kursadbilgin/expiry-notifier/internal/handler"
	"github.com/kursadbilgin/expiry-notifier/internal/observability"
	"github.com/kursadbilgin/expiry-notifier/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "expiry-notifier-api")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	authenticator, err := auth.NewAuthenticator(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("auth initialization failed", zap.Error(err))
	}

	services, err := app.Build(cfg, logger)
	if err != nil {
		logger.Fatal("service initialization failed", zap.Error(err))
	}
	defer services.Close()

	sqlDB, err := services.DB.DB()
	if err != nil {
		logger.Fatal("database handle init failed", zap.Error(err))
	}

	server := fiber.New(fiber.Config{
		AppName:               "expiry-notifier",
		ErrorHandler:          transport.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	server.Use(handler.CorrelationMiddleware())
	server.Use(services.Metrics.HTTPMiddleware())
	server.Use(handler.RequestLogger(logger))

	handler.RegisterHealthRoutes(server, sqlDB, services.Redis)
	server.Get("/metrics", adaptor.HTTPHandler(services.Metrics.Handler()))
	if err := handler.RegisterNotificationRoutes(
		server,
		services.Notifications,
		services.Pusher,
		authenticator.Middleware(),
	); err != nil {
		logger.Fatal("route registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("expiry-notifier api started", zap.Int("port", cfg.APIPort))
		if err := server.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			return fmt.Errorf("http server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down api")
		return server.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("api exited with error", zap.Error(err))
	}
}
