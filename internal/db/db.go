package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"passvault/internal/model"
)

// MemoryDSN selects the in-process store instead of a SQL database.
const MemoryDSN = "memory"

// IsMemory reports whether dsn asks for the in-process store.
func IsMemory(dsn string) bool {
	return strings.EqualFold(dsn, MemoryDSN)
}

// Dialector picks the GORM dialect from the DSN: postgres:// and postgresql://
// URLs use Postgres, anything else is treated as a MySQL DSN.
func Dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return mysql.Open(dsn)
}

// Config returns the GORM settings shared by every dialect. TranslateError
// turns driver unique-violation codes into gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Open returns a connected GORM DB instance.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the users table and its unique email index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
