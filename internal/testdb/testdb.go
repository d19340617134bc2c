// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/kursadbilgin/expiry-notifier/internal/infra/migrations"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a private database with the production migrations applied.
// It is closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrations.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
