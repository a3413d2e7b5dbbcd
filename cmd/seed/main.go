// Command seed creates the bootstrap ADMIN account. Self-service
// registration always produces USER accounts, so the first admin has to
// come from here (or from another admin via the API).
package main

import (
	"errors"
	"log"
	"os"

	"inkwell/pkg/config"
	"inkwell/pkg/database"
	"inkwell/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	email := getEnv("SEED_ADMIN_EMAIL", "admin@localhost")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	name := getEnv("SEED_ADMIN_NAME", "Administrator")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}
	if len(password) < 6 {
		log.Fatal("SEED_ADMIN_PASSWORD must be at least 6 characters")
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var existing models.User
	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Admin %s already exists (id=%d), nothing to do", email, existing.ID)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Email:    email,
		Name:     name,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Created admin %s (id=%d)", email, admin.ID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
