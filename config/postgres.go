package config

import (
	"errors"
	"os"
	"time"

	"github.com/hirewire/hirewire/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
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

	// Connection Pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return err
	}

	PostgresDB = db
	return nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.TagGroup{},
		&models.Tag{},
		&models.UserTag{},
		&models.VacancyTag{},
		&models.ApplicationTemplate{},
		&models.Question{},
		&models.Answer{},
		&models.Vacancy{},
		&models.ApplicationStatus{},
		&models.Application{},
		&models.ApplicationAnswer{},
		&models.ApplicationNote{},
		&models.File{},
	); err != nil {
		return err
	}
	return seedStatuses(db)
}

// seedStatuses installs the status dictionary on first boot; the lowest
// id is the default for new applications.
func seedStatuses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ApplicationStatus{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	statuses := []models.ApplicationStatus{
		{Name: "NEW"},
		{Name: "IN_REVIEW"},
		{Name: "INTERVIEW"},
		{Name: "REJECTED"},
		{Name: "HIRED"},
	}
	return db.Create(&statuses).Error
}
