package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "host=localhost user=test password=test dbname=test port=5432 sslmode=disable")
	t.Setenv("WEBHOOK_URL", "https://chat.googleapis.com/v1/spaces/test/messages?key=k&token=t")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DatabaseDriver != "postgres" {
		t.Errorf("DatabaseDriver = %s, want postgres", cfg.DatabaseDriver)
	}
	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %s, want json", cfg.LogFormat)
	}
	if cfg.WebhookMaxAttempts != 3 {
		t.Errorf("WebhookMaxAttempts = %d, want 3", cfg.WebhookMaxAttempts)
	}
	if cfg.WebhookRetryDelay() != 2*time.Second {
		t.Errorf("WebhookRetryDelay() = %s, want 2s", cfg.WebhookRetryDelay())
	}
	if cfg.WebhookTimeout() != 10*time.Second {
		t.Errorf("WebhookTimeout() = %s, want 10s", cfg.WebhookTimeout())
	}
	if cfg.WebhookRateLimitPerSec != 1 {
		t.Errorf("WebhookRateLimitPerSec = %d, want 1", cfg.WebhookRateLimitPerSec)
	}
	if cfg.DetailURLBase != "https://resourcevault.expertflow.com/#/license-detail" {
		t.Errorf("DetailURLBase = %s", cfg.DetailURLBase)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %s, want UTC", cfg.Location())
	}
	if cfg.SchedulerInterval() != time.Hour {
		t.Errorf("SchedulerInterval() = %s, want 1h", cfg.SchedulerInterval())
	}
	if !cfg.SchedulerPushEnabled {
		t.Error("SchedulerPushEnabled should default to true")
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %s, want empty", cfg.RedisURL)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_DRIVER", "MySQL")
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("WEBHOOK_MAX_ATTEMPTS", "5")
	t.Setenv("REPORT_TIMEZONE", "Asia/Karachi")
	t.Setenv("DETAIL_URL_BASE", "https://vault.example.com/#/license-detail/")
	t.Setenv("SCHEDULER_PUSH_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DatabaseDriver != "mysql" {
		t.Errorf("DatabaseDriver = %s, want mysql", cfg.DatabaseDriver)
	}
	if cfg.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", cfg.APIPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %s, want console", cfg.LogFormat)
	}
	if cfg.WebhookMaxAttempts != 5 {
		t.Errorf("WebhookMaxAttempts = %d, want 5", cfg.WebhookMaxAttempts)
	}
	if cfg.Location().String() != "Asia/Karachi" {
		t.Errorf("Location() = %s, want Asia/Karachi", cfg.Location())
	}
	if cfg.DetailURLBase != "https://vault.example.com/#/license-detail" {
		t.Errorf("DetailURLBase = %s, want trailing slash trimmed", cfg.DetailURLBase)
	}
	if cfg.SchedulerPushEnabled {
		t.Error("SchedulerPushEnabled should be false")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost")
	t.Setenv("WEBHOOK_URL", "")
	if err := os.Unsetenv("WEBHOOK_URL"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required env vars, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown driver", key: "DATABASE_DRIVER", value: "oracle"},
		{name: "unknown timezone", key: "REPORT_TIMEZONE", value: "Mars/Olympus"},
		{name: "zero attempts", key: "WEBHOOK_MAX_ATTEMPTS", value: "0"},
		{name: "negative delay", key: "WEBHOOK_RETRY_DELAY_MS", value: "-1"},
		{name: "zero timeout", key: "WEBHOOK_TIMEOUT_MS", value: "0"},
		{name: "zero interval", key: "SCHEDULER_INTERVAL_SEC", value: "0"},
		{name: "unknown log format", key: "LOG_FORMAT", value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s, got nil", tt.key, tt.value)
			}
		})
	}
}
