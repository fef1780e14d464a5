package config

import (
	"errors"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/careerforge/backend/internal/models"
)

var PostgresDB *gorm.DB

func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if os.Getenv("POSTGRES_AUTOMIGRATE") == "true" {
		if err := db.AutoMigrate(
			&models.User{},
			&models.Interview{},
			&models.Feedback{},
			&models.Assessment{},
			&models.Resume{},
			&models.ResumeFile{},
			&models.CoverLetter{},
			&models.IndustryInsight{},
			&models.UserInsight{},
		); err != nil {
			return err
		}
	}

	PostgresDB = db
	return nil
}
