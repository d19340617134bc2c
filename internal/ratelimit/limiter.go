package ratelimit

import "context"

// RateLimiter throttles outbound webhook deliveries per destination key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Wait(ctx context.Context, key string) error
}

// Unlimited never throttles. It is used when no shared limiter is configured.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }

func (Unlimited) Wait(context.Context, string) error { return nil }

var _ RateLimiter = Unlimited{}
