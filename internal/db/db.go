package db

import (
	"errors"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database at path. TranslateError is enabled so
// unique-constraint violations surface as gorm.ErrDuplicatedKey, which the
// ID-retry loops key off.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, errors.New("database path is not set")
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// Migrate runs GORM auto-migrations for the core tables, then rewrites any
// legacy position numbering it finds.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	if err := conn.AutoMigrate(
		&Prompt{},
		&RotationCursor{},
		&Submission{},
		&Rating{},
		&ModerationEvent{},
	); err != nil {
		return err
	}
	if err := MigrateLegacyPositions(conn); err != nil {
		return err
	}
	log.Println("database migration complete")
	return nil
}
