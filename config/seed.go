package config

import (
	"os"

	"gorm.io/gorm"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/utils"
)

// SeedDefaults creates the baseline catalog rows and a bootstrap admin so
// a fresh database is immediately usable. Existing rows are left alone.
func SeedDefaults(db *gorm.DB) error {
	cities := []models.City{
		{Name: "Moscow", Slug: "moscow", IsActive: true},
		{Name: "Saint Petersburg", Slug: "spb", IsActive: true},
		{Name: "Kazan", Slug: "kazan", IsActive: true},
	}
	for _, city := range cities {
		if err := db.Where(models.City{Slug: city.Slug}).FirstOrCreate(&city).Error; err != nil {
			return err
		}
	}

	categories := []models.Category{
		{Name: "Food & Drinks", Slug: "food", Emoji: "🍔"},
		{Name: "Beauty", Slug: "beauty", Emoji: "💅"},
		{Name: "Fitness", Slug: "fitness", Emoji: "🏋️"},
		{Name: "Entertainment", Slug: "entertainment", Emoji: "🎬"},
		{Name: "Services", Slug: "services", Emoji: "🛠"},
	}
	for _, category := range categories {
		if err := db.Where(models.Category{Slug: category.Slug}).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.Admin{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := models.Admin{
		Email:     adminEmail,
		Password:  hash,
		FirstName: "Admin",
		IsActive:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.LogInfo("Bootstrap admin %s created", adminEmail)
	return nil
}
