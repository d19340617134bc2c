package mysql

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Dialector returns the dialector for the legacy MySQL store. DATE columns are
// only scanned into time.Time when the DSN carries parseTime=true.
func Dialector(dsn string) (gorm.Dialector, error) {
	if !strings.Contains(strings.ToLower(dsn), "parsetime=true") {
		return nil, fmt.Errorf("mysql dsn must set parseTime=true")
	}

	return mysql.New(mysql.Config{
		DSN:                       dsn,
		DefaultStringSize:         255,
		SkipInitializeWithVersion: false,
	}), nil
}
