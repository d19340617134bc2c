package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"github.com/kursadbilgin/expiry-notifier/internal/observability"
	"github.com/kursadbilgin/expiry-notifier/internal/repository"
	"go.uber.org/zap"
)

const (
	activityTitleRead = "Notification read"
	activityTable     = "notifications"
)

// NotificationService runs generation, resolution, summary and read-flag
// operations. Writes are detached from the caller's cancellation so a client
// that gives up does not abort a run halfway.
type NotificationService struct {
	notifications repository.NotificationRepository
	entities      repository.EntityRepository
	logger        *zap.Logger
	metrics       *observability.Metrics
	location      *time.Location
	now           func() time.Time
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	entities repository.EntityRepository,
	location *time.Location,
	logger *zap.Logger,
) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if entities == nil {
		return nil, fmt.Errorf("entity repository is required")
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		notifications: notifications,
		entities:      entities,
		logger:        logger,
		location:      location,
		now:           time.Now,
	}, nil
}

func (s *NotificationService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// SetClock replaces the source of "now".
func (s *NotificationService) SetClock(now func() time.Time) {
	if s == nil || now == nil {
		return
	}
	s.now = now
}

func (s *NotificationService) reference() time.Time {
	return s.now().In(s.location)
}

// Generate classifies every license and contract against today and stores a
// notification for each reportable entity not yet notified today in its
// current state. It returns the number of rows written.
func (s *NotificationService) Generate(ctx context.Context) (int64, error) {
	ctx = context.WithoutCancel(ctx)
	log := observability.WithContextLogger(s.logger, ctx)
	reference := s.reference()

	licenses, err := s.entities.ListLicenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list licenses: %w", err)
	}
	contracts, err := s.entities.ListContracts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list contracts: %w", err)
	}

	createdAt := reference.UTC()
	candidates := make([]*domain.Notification, 0)
	for _, license := range licenses {
		n, ok := domain.NewLicenseNotification(reference, license)
		if !ok {
			continue
		}
		n.CreatedAt = createdAt
		candidates = append(candidates, &n)
	}
	for _, contract := range contracts {
		n, ok := domain.NewContractNotification(reference, contract)
		if !ok {
			continue
		}
		n.CreatedAt = createdAt
		candidates = append(candidates, &n)
	}

	for _, n := range candidates {
		if err := n.Validate(); err != nil {
			return 0, fmt.Errorf("invalid %s notification for id %d: %w", n.EntityType, n.EntityID, err)
		}
	}

	inserted, err := s.notifications.CreateMissing(ctx, candidates)
	if err != nil {
		return 0, fmt.Errorf("failed to store notifications: %w", err)
	}

	s.recordCandidates(candidates)
	log.Info("notifications generated",
		zap.String("bucketDate", domain.CivilDate(reference).Format(time.DateOnly)),
		zap.Int("licenses", len(licenses)),
		zap.Int("contracts", len(contracts)),
		zap.Int("reportable", len(candidates)),
		zap.Int64("inserted", inserted),
	)

	return inserted, nil
}

func (s *NotificationService) recordCandidates(candidates []*domain.Notification) {
	if s.metrics == nil {
		return
	}

	counts := make(map[[2]string]int)
	for _, n := range candidates {
		counts[[2]string{n.EntityType.String(), n.Classification.String()}]++
	}
	for key, count := range counts {
		s.metrics.AddNotificationsGenerated(key[0], key[1], count)
	}
}

// Latest returns the newest notification of every entity, newest first.
func (s *NotificationService) Latest(ctx context.Context) ([]domain.Notification, error) {
	notifications, err := s.notifications.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id uint64) (*domain.Notification, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: notification id must be positive", domain.ErrValidation)
	}

	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("notification %d: %w", id, err)
	}
	return n, nil
}

// MarkAsRead flags a notification as read by adminUserID and records the
// action in the activity trail. actorUserID is the authenticated caller, zero
// when unknown.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uint64, adminUserID uint64, actorUserID uint64) (*domain.Notification, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: notification id must be positive", domain.ErrValidation)
	}
	if adminUserID == 0 {
		return nil, fmt.Errorf("%w: admin_user_id is required", domain.ErrValidation)
	}

	ctx = context.WithoutCancel(ctx)
	readAt := s.now().UTC()
	audit := &domain.ActivityEntry{
		AdminUserID:   adminUserID,
		ActionTitle:   activityTitleRead,
		Description:   readDescription(id, actorUserID),
		TableAffected: activityTable,
		AffectedID:    id,
		CreatedAt:     readAt,
	}

	if err := s.notifications.MarkAsRead(ctx, id, adminUserID, readAt, audit); err != nil {
		return nil, fmt.Errorf("notification %d: %w", id, err)
	}

	observability.WithContextLogger(s.logger, ctx).Info("notification marked as read",
		zap.Uint64("notificationId", id),
		zap.Uint64("adminUserId", adminUserID),
		zap.Uint64("actorUserId", actorUserID),
	)

	return s.GetByID(ctx, id)
}

func readDescription(id uint64, actorUserID uint64) string {
	if actorUserID == 0 {
		return fmt.Sprintf("Notification %d marked as read", id)
	}
	return fmt.Sprintf("Notification %d marked as read by user %d", id, actorUserID)
}

// Summary counts licenses and contracts by expiry state as of now.
func (s *NotificationService) Summary(ctx context.Context) (domain.Summary, error) {
	reference := s.reference()

	licenses, err := s.entities.ListLicenses(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("failed to list licenses: %w", err)
	}
	contracts, err := s.entities.ListContracts(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("failed to list contracts: %w", err)
	}

	return domain.Summarize(reference, licenses, contracts), nil
}
