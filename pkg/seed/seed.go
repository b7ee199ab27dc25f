package seed

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ventapos_backend/internal/model"
)

// SeedSuperAdmin makes sure at least one super admin exists so the admin
// surface is reachable on a fresh database.
func SeedSuperAdmin(db *gorm.DB) {
	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("SUPER_ADMIN_EMAIL/PASSWORD not set, skipping super admin seed")
		return
	}

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Could not hash super admin password: %v", err)
		return
	}

	admin := model.User{
		Email:    email,
		Password: string(hash),
		Name:     "Super Admin",
		Role:     model.RoleSuperAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error creating super admin: %v", err)
		return
	}

	log.Println("Super admin seeded successfully!")
}
