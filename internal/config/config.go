package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDriver         string `env:"DATABASE_DRIVER,default=postgres"`
	DatabaseDSN            string `env:"DATABASE_DSN,required=true"`
	RedisURL               string `env:"REDIS_URL"`
	WebhookURL             string `env:"WEBHOOK_URL,required=true"`
	WebhookMaxAttempts     int    `env:"WEBHOOK_MAX_ATTEMPTS,default=3"`
	WebhookRetryDelayMS    int    `env:"WEBHOOK_RETRY_DELAY_MS,default=2000"`
	WebhookTimeoutMS       int    `env:"WEBHOOK_TIMEOUT_MS,default=10000"`
	WebhookRateLimitPerSec int    `env:"WEBHOOK_RATE_LIMIT_PER_SEC,default=1"`
	DetailURLBase          string `env:"DETAIL_URL_BASE,default=https://resourcevault.expertflow.com/#/license-detail"`
	ReportTimezone         string `env:"REPORT_TIMEZONE,default=UTC"`
	JWTSecret              string `env:"JWT_SECRET"`
	APIPort                int    `env:"API_PORT,default=8080"`
	LogLevel               string `env:"LOG_LEVEL,default=info"`
	LogFormat              string `env:"LOG_FORMAT,default=json"`
	SchedulerIntervalSec   int    `env:"SCHEDULER_INTERVAL_SEC,default=3600"`
	SchedulerPushEnabled   bool   `env:"SCHEDULER_PUSH_ENABLED,default=true"`

	location *time.Location
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	switch c.DatabaseDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}

	if c.WebhookMaxAttempts < 1 {
		return fmt.Errorf("WEBHOOK_MAX_ATTEMPTS must be >= 1")
	}
	if c.WebhookRetryDelayMS < 0 {
		return fmt.Errorf("WEBHOOK_RETRY_DELAY_MS must be >= 0")
	}
	if c.WebhookTimeoutMS <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT_MS must be > 0")
	}
	if c.SchedulerIntervalSec <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL_SEC must be > 0")
	}

	loc, err := time.LoadLocation(strings.TrimSpace(c.ReportTimezone))
	if err != nil {
		return fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}
	c.location = loc

	c.DetailURLBase = strings.TrimRight(strings.TrimSpace(c.DetailURLBase), "/")
	return nil
}

// Location is the zone that defines "today" for classification.
func (c *Config) Location() *time.Location {
	if c == nil || c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) WebhookRetryDelay() time.Duration {
	return time.Duration(c.WebhookRetryDelayMS) * time.Millisecond
}

func (c *Config) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutMS) * time.Millisecond
}

func (c *Config) SchedulerInterval() time.Duration {
	return time.Duration(c.SchedulerIntervalSec) * time.Second
}
