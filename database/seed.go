package database

import (
	"os"

	"github.com/restobook/restobook/models"
	"github.com/restobook/restobook/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates the initial admin account and a default table layout on an
// empty database. Safe to call on every boot.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedTables(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.InfoLogger.Println("No admin account found and ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded admin account %s", email)
	return nil
}

func seedTables(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Table{
		{TableNumber: "1", Capacity: 2, IsActive: true},
		{TableNumber: "2", Capacity: 2, IsActive: true},
		{TableNumber: "3", Capacity: 4, IsActive: true},
		{TableNumber: "4", Capacity: 4, IsActive: true},
		{TableNumber: "5", Capacity: 6, IsActive: true},
		{TableNumber: "6", Capacity: 8, IsActive: true},
	}
	if err := db.Create(&defaults).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d default tables", len(defaults))
	return nil
}
