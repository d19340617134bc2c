package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"github.com/kursadbilgin/expiry-notifier/internal/observability"
	"github.com/kursadbilgin/expiry-notifier/internal/provider"
	"github.com/kursadbilgin/expiry-notifier/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 2 * time.Second

	defaultLimiterKey = "webhook"
)

// DispatchResult describes a finished dispatch.
type DispatchResult struct {
	Notifications int
	Attempts      int
	StatusCode    int
}

// Dispatcher posts the digest to the chat webhook with a fixed number of
// attempts and a fixed delay between them.
type Dispatcher struct {
	provider    provider.Provider
	formatter   DigestFormatter
	rateLimiter ratelimit.RateLimiter
	limiterKey  string
	maxAttempts int
	retryDelay  time.Duration
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
	sleep       func(time.Duration)
}

type DispatcherOption func(*Dispatcher)

func WithRateLimiter(limiter ratelimit.RateLimiter, key string) DispatcherOption {
	return func(d *Dispatcher) {
		if limiter != nil {
			d.rateLimiter = limiter
		}
		if key != "" {
			d.limiterKey = key
		}
	}
}

func WithRetryPolicy(maxAttempts int, retryDelay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if maxAttempts > 0 {
			d.maxAttempts = maxAttempts
		}
		if retryDelay >= 0 {
			d.retryDelay = retryDelay
		}
	}
}

func WithDispatchMetrics(metrics *observability.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = metrics
	}
}

func NewDispatcher(
	p provider.Provider,
	formatter DigestFormatter,
	logger *zap.Logger,
	opts ...DispatcherOption,
) (*Dispatcher, error) {
	if p == nil {
		return nil, fmt.Errorf("webhook provider is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		provider:    p,
		formatter:   formatter,
		rateLimiter: ratelimit.Unlimited{},
		limiterKey:  defaultLimiterKey,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      logger,
		now:         time.Now,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Dispatch sends notifications as a single digest. An empty input succeeds
// without any outbound call. Once started, a dispatch runs to completion even
// if ctx is cancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, notifications []domain.Notification) (*DispatchResult, error) {
	result := &DispatchResult{Notifications: len(notifications)}
	if len(notifications) == 0 {
		return result, nil
	}

	ctx = context.WithoutCancel(ctx)
	log := observability.WithContextLogger(d.logger, ctx)
	digest := d.formatter.Format(notifications)

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if attempt > 1 {
			d.sleep(d.retryDelay)
		}

		if err := d.rateLimiter.Wait(ctx, d.limiterKey); err != nil {
			// A broken limiter must not block delivery.
			log.Warn("webhook rate limiter unavailable", zap.Error(err))
		}

		result.Attempts = attempt
		start := d.now()
		resp, err := d.provider.Post(ctx, digest)
		elapsed := d.now().Sub(start)

		if err == nil {
			if resp != nil {
				result.StatusCode = resp.StatusCode
			}
			d.recordAttempt("success", elapsed)
			d.recordDispatch("delivered")
			log.Info("digest delivered to webhook",
				zap.Int("notifications", len(notifications)),
				zap.Int("attempt", attempt),
				zap.Int("statusCode", result.StatusCode),
			)
			return result, nil
		}

		lastErr = err
		result.StatusCode = provider.StatusCode(err)
		d.recordAttempt("failure", elapsed)
		log.Warn("webhook delivery attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", d.maxAttempts),
			zap.Int("statusCode", result.StatusCode),
			zap.Bool("transient", provider.IsTransient(err)),
			zap.Error(err),
		)
	}

	d.recordDispatch("exhausted")
	log.Error("webhook delivery exhausted",
		zap.Int("attempts", result.Attempts),
		zap.Error(lastErr),
	)
	return result, fmt.Errorf("%w: %d attempts, last attempt: %v", domain.ErrDelivery, result.Attempts, lastErr)
}

func (d *Dispatcher) recordAttempt(outcome string, elapsed time.Duration) {
	if d.metrics != nil {
		d.metrics.ObserveWebhookAttempt(outcome, elapsed)
	}
}

func (d *Dispatcher) recordDispatch(result string) {
	if d.metrics != nil {
		d.metrics.IncWebhookDispatch(result)
	}
}
