package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/expiry-notifier/internal/repository"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Every step is expressed through the
// GORM migrator so the same list runs on postgres, mysql and sqlite.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		createEntityTables(),
		createNotificationsTable(),
		createActivityTable(),
	})

	return m.Migrate()
}

// The license and contract tables are owned by the CRUD service; on an
// existing database this only adds what is missing.
func createEntityTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_entity_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.LicenseModel{}, &repository.MaintenanceContractModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return nil
		},
	}
}

func createNotificationsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_notifications",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.NotificationModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.NotificationModel{})
		},
	}
}

func createActivityTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_recent_activity",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.ActivityModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ActivityModel{})
		},
	}
}
