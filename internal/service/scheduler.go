package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultSchedulerInterval = time.Hour

type generator interface {
	Generate(ctx context.Context) (int64, error)
}

type pusher interface {
	Push(ctx context.Context) (*DispatchResult, error)
}

// Scheduler is the external trigger: on every tick it runs generation and,
// when a pusher is set, sends the digest.
type Scheduler struct {
	generator generator
	pusher    pusher
	logger    *zap.Logger
	interval  time.Duration
}

func NewScheduler(
	gen generator,
	push pusher,
	interval time.Duration,
	logger *zap.Logger,
) (*Scheduler, error) {
	if interval <= 0 {
		interval = defaultSchedulerInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		generator: gen,
		pusher:    push,
		logger:    logger,
		interval:  interval,
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce never returns an error; a failed tick is logged and the next tick
// retries.
func (s *Scheduler) runOnce(ctx context.Context) {
	if s.generator != nil {
		inserted, err := s.generator.Generate(ctx)
		if err != nil {
			s.logger.Error("scheduled generation failed", zap.Error(err))
			return
		}
		s.logger.Info("scheduled generation finished", zap.Int64("inserted", inserted))
	}

	if s.pusher == nil {
		return
	}

	result, err := s.pusher.Push(ctx)
	if err != nil {
		s.logger.Error("scheduled webhook push failed", zap.Error(err))
		return
	}
	if result.Notifications == 0 {
		s.logger.Info("scheduled webhook push skipped, nothing to push")
		return
	}
	s.logger.Info("scheduled webhook push finished",
		zap.Int("notifications", result.Notifications),
		zap.Int("attempts", result.Attempts),
	)
}
