package service

import (
	"context"
	"sync"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"github.com/kursadbilgin/expiry-notifier/internal/provider"
)

type fakeProvider struct {
	mu     sync.Mutex
	texts  []string
	postFn func(ctx context.Context, attempt int, text string) (*provider.ProviderResponse, error)
}

func (f *fakeProvider) Post(ctx context.Context, text string) (*provider.ProviderResponse, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	attempt := len(f.texts)
	f.mu.Unlock()

	if f.postFn != nil {
		return f.postFn(ctx, attempt, text)
	}
	return &provider.ProviderResponse{StatusCode: 200}, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

type fakeRateLimiter struct {
	mu     sync.Mutex
	keys   []string
	waitFn func(ctx context.Context, key string) error
}

func (f *fakeRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}

func (f *fakeRateLimiter) Wait(ctx context.Context, key string) error {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()

	if f.waitFn != nil {
		return f.waitFn(ctx, key)
	}
	return nil
}

type fakeNotificationRepo struct {
	createMissingFn func(ctx context.Context, notifications []*domain.Notification) (int64, error)
	latestFn        func(ctx context.Context) ([]domain.Notification, error)
	getByIDFn       func(ctx context.Context, id uint64) (*domain.Notification, error)
	markAsReadFn    func(ctx context.Context, id uint64, adminUserID uint64, readAt time.Time, audit *domain.ActivityEntry) error
}

func (f *fakeNotificationRepo) CreateMissing(ctx context.Context, notifications []*domain.Notification) (int64, error) {
	if f.createMissingFn != nil {
		return f.createMissingFn(ctx, notifications)
	}
	return int64(len(notifications)), nil
}

func (f *fakeNotificationRepo) Latest(ctx context.Context) ([]domain.Notification, error) {
	if f.latestFn != nil {
		return f.latestFn(ctx)
	}
	return nil, nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id uint64) (*domain.Notification, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uint64, adminUserID uint64, readAt time.Time, audit *domain.ActivityEntry) error {
	if f.markAsReadFn != nil {
		return f.markAsReadFn(ctx, id, adminUserID, readAt, audit)
	}
	return nil
}

type fakeEntityRepo struct {
	licenses     []domain.License
	contracts    []domain.MaintenanceContract
	licensesErr  error
	contractsErr error
}

func (f *fakeEntityRepo) ListLicenses(ctx context.Context) ([]domain.License, error) {
	return f.licenses, f.licensesErr
}

func (f *fakeEntityRepo) ListContracts(ctx context.Context) ([]domain.MaintenanceContract, error) {
	return f.contracts, f.contractsErr
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
