package postgresql

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dialector returns the postgres dialector for dsn. Sessions run in UTC so
// DATE columns and created_at stamps round-trip without a zone shift.
func Dialector(dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	return postgres.New(postgres.Config{
		DSN:                  withUTC(dsn),
		PreferSimpleProtocol: false,
	}), nil
}

func withUTC(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.Contains(lower, "timezone=") {
		return dsn
	}
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&TimeZone=UTC"
		}
		return dsn + "?TimeZone=UTC"
	}
	return dsn + " TimeZone=UTC"
}
