package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/expiry-notifier/internal/infra/mysql"
	"github.com/kursadbilgin/expiry-notifier/internal/infra/postgresql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
)

// Open connects to the configured relational store and verifies it answers.
func Open(driver string, dsn string) (*gorm.DB, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = DriverPostgres
	}

	dialector, err := dialectorFor(name, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", name, err)
	}

	return db, nil
}

func dialectorFor(driver string, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgresql.Dialector(dsn)
	case DriverMySQL:
		return mysql.Dialector(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
