package repository

import (
	"context"

	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"gorm.io/gorm"
)

// EntityRepository reads the license and contract tables. It never writes.
type EntityRepository interface {
	ListLicenses(ctx context.Context) ([]domain.License, error)
	ListContracts(ctx context.Context) ([]domain.MaintenanceContract, error)
}

type GormEntityRepo struct {
	db *gorm.DB
}

func NewGormEntityRepo(db *gorm.DB) *GormEntityRepo {
	return &GormEntityRepo{db: db}
}

func (r *GormEntityRepo) ListLicenses(ctx context.Context) ([]domain.License, error) {
	var models []LicenseModel
	err := r.db.WithContext(ctx).
		Select("license_id", "license_name", "expiry_date", "is_active").
		Order("license_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	licenses := make([]domain.License, 0, len(models))
	for i := range models {
		licenses = append(licenses, *licenseModelToDomain(&models[i]))
	}

	return licenses, nil
}

func (r *GormEntityRepo) ListContracts(ctx context.Context) ([]domain.MaintenanceContract, error) {
	var models []MaintenanceContractModel
	err := r.db.WithContext(ctx).
		Select("contract_id", "contract_type", "end_date", "license_id").
		Order("contract_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	contracts := make([]domain.MaintenanceContract, 0, len(models))
	for i := range models {
		contracts = append(contracts, *contractModelToDomain(&models[i]))
	}

	return contracts, nil
}
