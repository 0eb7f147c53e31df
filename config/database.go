package config

import (
	"fmt"

	"github.com/lovihub/lovi-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the database connection and performs migrations
func InitDB(config *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.City{},
		&models.Category{},
		&models.Business{},
		&models.Deal{},
		&models.Booking{},
		&models.BusinessReport{},
		&models.Review{},
		&models.Complaint{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return db, nil
}
