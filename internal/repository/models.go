package repository

import (
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
)

// LicenseModel maps the licenses table. Only the columns the notifier reads
// or needs to create an empty schema are declared.
type LicenseModel struct {
	ID             uint64     `gorm:"column:license_id;primaryKey;autoIncrement"`
	Name           string     `gorm:"column:license_name;type:varchar(255);not null"`
	CategoryAlias  *string    `gorm:"column:category_alias;type:varchar(255)"`
	ManufacturerID *uint64    `gorm:"column:manufacturer_id"`
	StartDate      *time.Time `gorm:"column:start_date;type:date"`
	ExpiryDate     *time.Time `gorm:"column:expiry_date;type:date"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true"`
	CompanyAlias   *string    `gorm:"column:company_alias;type:varchar(255)"`
	CustomerUUID   *string    `gorm:"column:customer_uuid;type:varchar(36)"`
	CreatedBy      *uint64    `gorm:"column:created_by"`
	UpdatedBy      *uint64    `gorm:"column:updated_by"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (LicenseModel) TableName() string {
	return "licenses"
}

// MaintenanceContractModel maps the maintenancecontracts table.
type MaintenanceContractModel struct {
	ID           uint64     `gorm:"column:contract_id;primaryKey;autoIncrement"`
	ContractType string     `gorm:"column:contract_type;type:varchar(100)"`
	StartDate    *time.Time `gorm:"column:start_date;type:date"`
	EndDate      *time.Time `gorm:"column:end_date;type:date"`
	LicenseID    *uint64    `gorm:"column:license_id"`
	Amount       *float64   `gorm:"column:amount"`
	CreatedBy    *uint64    `gorm:"column:created_by"`
	UpdatedBy    *uint64    `gorm:"column:updated_by"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MaintenanceContractModel) TableName() string {
	return "maintenancecontracts"
}

// NotificationModel is the persistence model for the notifications table.
// The unique index makes a second insert for the same entity, state and day a no-op.
type NotificationModel struct {
	ID             uint64                `gorm:"column:notification_id;primaryKey;autoIncrement"`
	EntityType     domain.EntityType     `gorm:"column:entity_type;type:varchar(16);not null;uniqueIndex:idx_notifications_entity_state_day,priority:1;index:idx_notifications_entity_created,priority:1"`
	EntityID       uint64                `gorm:"column:entity_id;not null;uniqueIndex:idx_notifications_entity_state_day,priority:2;index:idx_notifications_entity_created,priority:2"`
	LicenseID      *uint64               `gorm:"column:license_id;index"`
	ContractID     *uint64               `gorm:"column:contract_id;index"`
	Classification domain.Classification `gorm:"column:classification;type:varchar(20);not null;uniqueIndex:idx_notifications_entity_state_day,priority:3"`
	Message        string                `gorm:"column:notification_message;type:text;not null"`
	ExpiryDate     time.Time             `gorm:"column:expiry_date;type:date;not null"`
	BucketDate     time.Time             `gorm:"column:bucket_date;type:date;not null;uniqueIndex:idx_notifications_entity_state_day,priority:4"`
	IsRead         bool                  `gorm:"column:is_read;not null;default:false"`
	ReadAt         *time.Time            `gorm:"column:read_at"`
	AdminUserID    *uint64               `gorm:"column:admin_user_id"`
	CreatedAt      time.Time             `gorm:"column:created_at;not null;index:idx_notifications_entity_created,priority:3"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// ActivityModel maps the recentactivity audit table.
type ActivityModel struct {
	ID            uint64    `gorm:"column:activity_id;primaryKey;autoIncrement"`
	AdminUserID   uint64    `gorm:"column:admin_user_id;not null"`
	ActionTitle   string    `gorm:"column:action_title;type:varchar(255)"`
	Description   string    `gorm:"column:action_description;type:text"`
	TableAffected string    `gorm:"column:table_affected;type:varchar(100)"`
	AffectedID    uint64    `gorm:"column:affected_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (ActivityModel) TableName() string {
	return "recentactivity"
}

func licenseModelToDomain(m *LicenseModel) *domain.License {
	if m == nil {
		return nil
	}

	return &domain.License{
		ID:         m.ID,
		Name:       m.Name,
		ExpiryDate: m.ExpiryDate,
		IsActive:   m.IsActive,
	}
}

func contractModelToDomain(m *MaintenanceContractModel) *domain.MaintenanceContract {
	if m == nil {
		return nil
	}

	return &domain.MaintenanceContract{
		ID:           m.ID,
		ContractType: m.ContractType,
		EndDate:      m.EndDate,
		LicenseID:    m.LicenseID,
	}
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:             n.ID,
		EntityType:     n.EntityType,
		EntityID:       n.EntityID,
		LicenseID:      n.LicenseID,
		ContractID:     n.ContractID,
		Classification: n.Classification,
		Message:        n.Message,
		ExpiryDate:     n.ExpiryDate,
		BucketDate:     n.BucketDate,
		IsRead:         n.IsRead,
		ReadAt:         n.ReadAt,
		AdminUserID:    n.AdminUserID,
		CreatedAt:      n.CreatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}

	return &domain.Notification{
		ID:             m.ID,
		EntityType:     m.EntityType,
		EntityID:       m.EntityID,
		LicenseID:      m.LicenseID,
		ContractID:     m.ContractID,
		Classification: m.Classification,
		Message:        m.Message,
		ExpiryDate:     m.ExpiryDate,
		BucketDate:     m.BucketDate,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		AdminUserID:    m.AdminUserID,
		CreatedAt:      m.CreatedAt,
	}
}

func activityModelFromDomain(a *domain.ActivityEntry) *ActivityModel {
	if a == nil {
		return nil
	}

	return &ActivityModel{
		ID:            a.ID,
		AdminUserID:   a.AdminUserID,
		ActionTitle:   a.ActionTitle,
		Description:   a.Description,
		TableAffected: a.TableAffected,
		AffectedID:    a.AffectedID,
		CreatedAt:     a.CreatedAt,
	}
}
