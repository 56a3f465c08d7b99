package database

import (
	"activityhub-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the postgres connection used by every service.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	DB = db
	return db, nil
}

// Migrate creates or updates the schema of every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.Payment{},
		&models.Subscription{},
		&models.Rating{},
		&models.Transaction{},
	)
}
