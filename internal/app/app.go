// Package app wires configuration, storage and services for the binaries.
package app

import (
	"fmt"

	"github.com/kursadbilgin/expiry-notifier/internal/config"
	"github.com/kursadbilgin/expiry-notifier/internal/infra/database"
	"github.com/kursadbilgin/expiry-notifier/internal/infra/migrations"
	infraredis "github.com/kursadbilgin/expiry-notifier/internal/infra/redis"
	"github.com/kursadbilgin/expiry-notifier/internal/observability"
	"github.com/kursadbilgin/expiry-notifier/internal/provider"
	"github.com/kursadbilgin/expiry-notifier/internal/ratelimit"
	"github.com/kursadbilgin/expiry-notifier/internal/repository"
	"github.com/kursadbilgin/expiry-notifier/internal/service"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services holds the wired components shared by the API and the scheduler.
type Services struct {
	DB            *gorm.DB
	Redis         *goredis.Client
	Notifications *service.NotificationService
	Dispatcher    *service.Dispatcher
	Pusher        *service.Pusher
	Metrics       *observability.Metrics
}

// Build opens the database, applies migrations, connects Redis when
// configured and wires the services. Close releases what Build opened.
func Build(cfg *config.Config, logger *zap.Logger) (_ *Services, err error) {
	s := &Services{Metrics: observability.NewMetrics()}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	s.DB, err = database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}
	if err := migrations.Migrate(s.DB); err != nil {
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	s.Redis, err = infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis initialization failed: %w", err)
	}

	s.Notifications, err = service.NewNotificationService(
		repository.NewGormNotificationRepo(s.DB),
		repository.NewGormEntityRepo(s.DB),
		cfg.Location(),
		logger,
	)
	if err != nil {
		return nil, err
	}
	s.Notifications.SetMetrics(s.Metrics)

	chat, err := provider.NewChatWebhookProvider(cfg.WebhookURL, cfg.WebhookTimeout())
	if err != nil {
		return nil, fmt.Errorf("webhook provider initialization failed: %w", err)
	}

	var limiter ratelimit.RateLimiter = ratelimit.Unlimited{}
	if s.Redis != nil {
		redisLimiter, err := infraredis.NewRedisRateLimiter(s.Redis, cfg.WebhookRateLimitPerSec)
		if err != nil {
			return nil, fmt.Errorf("rate limiter initialization failed: %w", err)
		}
		limiter = redisLimiter
	}

	s.Dispatcher, err = service.NewDispatcher(
		chat,
		service.NewDigestFormatter(cfg.DetailURLBase, cfg.Location()),
		logger,
		service.WithRetryPolicy(cfg.WebhookMaxAttempts, cfg.WebhookRetryDelay()),
		service.WithRateLimiter(limiter, chat.Host()),
		service.WithDispatchMetrics(s.Metrics),
	)
	if err != nil {
		return nil, err
	}

	s.Pusher, err = service.NewPusher(s.Notifications, s.Dispatcher)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Services) Close() {
	if s == nil {
		return
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	closeDB(s.DB)
	s.Redis = nil
	s.DB = nil
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
