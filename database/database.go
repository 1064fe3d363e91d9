package database

import (
	"log"
	"os"

	"media-rewards-system/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the volatile store. Everything lives in an in-memory SQLite
// database: state is process-lifetime only, a restart starts from the seed.
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Shared-cache in-memory SQLite tolerates exactly one writer.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("✅ Connected to in-memory store")
	return db, nil
}

// Migrate creates the full schema. Shared with tests so every test database
// matches production exactly.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CoinTransaction{},
		&models.Reward{},
		&models.UserReward{},
		&models.Movie{},
		&models.MediaItem{},
	)
}
