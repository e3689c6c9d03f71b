package database

import (
	"strings"

	"invoiceapp/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the invoice store and migrates its schema. The DSN picks
// the backend: postgres:// selects Postgres, anything else is treated as a
// SQLite file path (the default for the local single-user case).
func Open(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	sqliteBacked := true
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
		sqliteBacked = false
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if sqliteBacked {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite handles one writer; a single connection avoids lock errors.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.Invoice{}, &model.LineItem{}); err != nil {
		return nil, err
	}

	return db, nil
}
