package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"github.com/kursadbilgin/expiry-notifier/internal/observability"
	"github.com/kursadbilgin/expiry-notifier/internal/provider"
	"go.uber.org/zap"
)

func sampleNotifications() []domain.Notification {
	licenseID := uint64(3)
	return []domain.Notification{
		{
			ID:             1,
			EntityType:     domain.EntityLicense,
			EntityID:       3,
			LicenseID:      &licenseID,
			Classification: domain.ClassificationExpired,
			Message:        "License #3 expired on 2026-10-01",
			ExpiryDate:     time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC),
		},
	}
}

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(d time.Duration) {
	r.delays = append(r.delays, d)
}

func newTestDispatcher(t *testing.T, p provider.Provider, opts ...DispatcherOption) (*Dispatcher, *sleepRecorder) {
	t.Helper()

	d, err := NewDispatcher(p, NewDigestFormatter("https://vault.example.com/#/license-detail", time.UTC), zap.NewNop(), opts...)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	rec := &sleepRecorder{}
	d.sleep = rec.sleep
	return d, rec
}

func TestDispatcherEmptyInputMakesNoCall(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	d, rec := newTestDispatcher(t, p)

	result, err := d.Dispatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if p.calls() != 0 {
		t.Fatalf("provider calls = %d, want 0", p.calls())
	}
	if result.Attempts != 0 || len(rec.delays) != 0 {
		t.Fatalf("result = %+v, delays = %v, want no attempts", result, rec.delays)
	}
}

func TestDispatcherSucceedsOnThirdAttempt(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		postFn: func(ctx context.Context, attempt int, text string) (*provider.ProviderResponse, error) {
			if attempt < 3 {
				return nil, &provider.ProviderError{StatusCode: 503, Message: "unavailable", Transient: true}
			}
			return &provider.ProviderResponse{StatusCode: 200}, nil
		},
	}
	metrics := observability.NewMetrics()
	d, rec := newTestDispatcher(t, p, WithDispatchMetrics(metrics))

	result, err := d.Dispatch(context.Background(), sampleNotifications())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if p.calls() != 3 || result.Attempts != 3 {
		t.Fatalf("calls = %d, attempts = %d, want 3", p.calls(), result.Attempts)
	}
	if result.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", result.StatusCode)
	}
	if len(rec.delays) != 2 {
		t.Fatalf("delays = %v, want 2 waits", rec.delays)
	}
	for _, delay := range rec.delays {
		if delay != 2*time.Second {
			t.Fatalf("delay = %s, want 2s", delay)
		}
	}
	for i := 1; i < len(p.texts); i++ {
		if p.texts[i] != p.texts[0] {
			t.Fatalf("attempt %d sent a different digest", i+1)
		}
	}
}

func TestDispatcherStopsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		postFn: func(ctx context.Context, attempt int, text string) (*provider.ProviderResponse, error) {
			return nil, &provider.ProviderError{StatusCode: 400, Message: "bad payload"}
		},
	}
	d, rec := newTestDispatcher(t, p)

	result, err := d.Dispatch(context.Background(), sampleNotifications())
	if !errors.Is(err, domain.ErrDelivery) {
		t.Fatalf("Dispatch() error = %v, want ErrDelivery", err)
	}
	if p.calls() != 3 {
		t.Fatalf("calls = %d, want exactly 3", p.calls())
	}
	if len(rec.delays) != 2 {
		t.Fatalf("delays = %v, want 2 waits", rec.delays)
	}
	if result.StatusCode != 400 {
		t.Fatalf("status = %d, want last attempt status 400", result.StatusCode)
	}
	if !strings.Contains(err.Error(), "status=400") || !strings.Contains(err.Error(), "3 attempts") {
		t.Fatalf("error %q lacks last attempt diagnostics", err.Error())
	}
}

func TestDispatcherRetriesNetworkErrors(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		postFn: func(ctx context.Context, attempt int, text string) (*provider.ProviderResponse, error) {
			if attempt == 1 {
				return nil, errors.New("connection reset by peer")
			}
			return &provider.ProviderResponse{StatusCode: 204}, nil
		},
	}
	d, _ := newTestDispatcher(t, p)

	result, err := d.Dispatch(context.Background(), sampleNotifications())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if result.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", result.Attempts)
	}
}

func TestDispatcherWaitsOnRateLimiterBeforeEachAttempt(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		postFn: func(ctx context.Context, attempt int, text string) (*provider.ProviderResponse, error) {
			if attempt == 1 {
				return nil, &provider.ProviderError{StatusCode: 429, Transient: true}
			}
			return &provider.ProviderResponse{StatusCode: 200}, nil
		},
	}
	limiter := &fakeRateLimiter{
		waitFn: func(ctx context.Context, key string) error {
			return errors.New("redis: connection refused")
		},
	}
	d, _ := newTestDispatcher(t, p, WithRateLimiter(limiter, "chat.example.com"))

	if _, err := d.Dispatch(context.Background(), sampleNotifications()); err != nil {
		t.Fatalf("Dispatch() error = %v, limiter failure must not block delivery", err)
	}
	if len(limiter.keys) != 2 {
		t.Fatalf("limiter waits = %d, want 2", len(limiter.keys))
	}
	if limiter.keys[0] != "chat.example.com" {
		t.Fatalf("limiter key = %q, want chat.example.com", limiter.keys[0])
	}
}

func TestDispatcherIgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		postFn: func(ctx context.Context, attempt int, text string) (*provider.ProviderResponse, error) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return &provider.ProviderResponse{StatusCode: 200}, nil
		},
	}
	d, _ := newTestDispatcher(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Dispatch(ctx, sampleNotifications()); err != nil {
		t.Fatalf("Dispatch() error = %v, want delivery despite cancelled caller", err)
	}
}

func TestWithRetryPolicyOverridesDefaults(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		postFn: func(ctx context.Context, attempt int, text string) (*provider.ProviderResponse, error) {
			return nil, errors.New("down")
		},
	}
	d, rec := newTestDispatcher(t, p, WithRetryPolicy(5, 10*time.Millisecond))

	if _, err := d.Dispatch(context.Background(), sampleNotifications()); err == nil {
		t.Fatal("expected delivery error")
	}
	if p.calls() != 5 {
		t.Fatalf("calls = %d, want 5", p.calls())
	}
	if len(rec.delays) != 4 || rec.delays[0] != 10*time.Millisecond {
		t.Fatalf("delays = %v, want 4 x 10ms", rec.delays)
	}
}

func TestNewDispatcherRequiresProvider(t *testing.T) {
	t.Parallel()

	if _, err := NewDispatcher(nil, DigestFormatter{}, nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}
