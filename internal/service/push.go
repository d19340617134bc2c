package service

import (
	"context"
	"fmt"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
)

type latestSource interface {
	Latest(ctx context.Context) ([]domain.Notification, error)
}

type digestDispatcher interface {
	Dispatch(ctx context.Context, notifications []domain.Notification) (*DispatchResult, error)
}

// Pusher resolves the latest notifications and dispatches them as one digest.
type Pusher struct {
	latest     latestSource
	dispatcher digestDispatcher
}

func NewPusher(latest latestSource, dispatcher digestDispatcher) (*Pusher, error) {
	if latest == nil {
		return nil, fmt.Errorf("latest notification source is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	return &Pusher{latest: latest, dispatcher: dispatcher}, nil
}

// Push returns a result with zero Notifications when there is nothing to
// send; no delivery is attempted in that case.
func (p *Pusher) Push(ctx context.Context) (*DispatchResult, error) {
	notifications, err := p.latest.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return &DispatchResult{}, nil
	}
	return p.dispatcher.Dispatch(ctx, notifications)
}
