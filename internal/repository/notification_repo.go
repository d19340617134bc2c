package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 100

// latestPerEntitySQL keeps the newest row of every (entity_type, entity_id)
// group: a row survives when no row of the same entity is newer, or equally
// new with a higher identifier.
const latestPerEntitySQL = `
SELECT n.* FROM notifications n
WHERE NOT EXISTS (
	SELECT 1 FROM notifications newer
	WHERE newer.entity_type = n.entity_type
	  AND newer.entity_id = n.entity_id
	  AND (newer.created_at > n.created_at
	    OR (newer.created_at = n.created_at AND newer.notification_id > n.notification_id))
)
ORDER BY n.created_at DESC, n.notification_id DESC`

type NotificationRepository interface {
	CreateMissing(ctx context.Context, notifications []*domain.Notification) (int64, error)
	Latest(ctx context.Context) ([]domain.Notification, error)
	GetByID(ctx context.Context, id uint64) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, id uint64, adminUserID uint64, readAt time.Time, audit *domain.ActivityEntry) error
}

type GormNotificationRepo struct {
	db *gorm.DB
}

func NewGormNotificationRepo(db *gorm.DB) *GormNotificationRepo {
	return &GormNotificationRepo{db: db}
}

// CreateMissing inserts every notification whose (entity, classification, day)
// key is not stored yet and returns how many rows were written. All inserts
// share one transaction.
func (r *GormNotificationRepo) CreateMissing(ctx context.Context, notifications []*domain.Notification) (int64, error) {
	models := make([]NotificationModel, 0, len(notifications))
	for _, n := range notifications {
		if model := notificationModelFromDomain(n); model != nil {
			models = append(models, *model)
		}
	}

	if len(models) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&models, insertBatchSize)
		if result.Error != nil {
			return result.Error
		}
		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (r *GormNotificationRepo) Latest(ctx context.Context) ([]domain.Notification, error) {
	var models []NotificationModel
	if err := r.db.WithContext(ctx).Raw(latestPerEntitySQL).Scan(&models).Error; err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, *notificationModelToDomain(&models[i]))
	}

	return notifications, nil
}

func (r *GormNotificationRepo) GetByID(ctx context.Context, id uint64) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).First(&model, "notification_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return notificationModelToDomain(&model), nil
}

// MarkAsRead flags the notification as read by adminUserID and, when audit is
// non-nil, appends it to the activity trail in the same transaction.
func (r *GormNotificationRepo) MarkAsRead(
	ctx context.Context,
	id uint64,
	adminUserID uint64,
	readAt time.Time,
	audit *domain.ActivityEntry,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&NotificationModel{}).
			Where("notification_id = ?", id).
			Updates(map[string]any{
				"is_read":       true,
				"admin_user_id": adminUserID,
				"read_at":       readAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if audit == nil {
			return nil
		}
		return tx.Create(activityModelFromDomain(audit)).Error
	})
}
