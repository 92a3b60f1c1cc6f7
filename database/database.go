package database

import (
	"fmt"
	"log"

	config "github.com/nkoroleva/medtest_platform/configs"
	"github.com/nkoroleva/medtest_platform/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.MedicalWorker{},
		&models.TestCategory{},
		&models.Test{},
		&models.Question{},
		&models.Answer{},
		&models.TestSubscription{},
		&models.TestResult{},
		&models.UserAnswer{},
		&models.Certificate{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.MedicalWorker{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	admin := models.MedicalWorker{
		Email:          adminEmail,
		Username:       config.Config("ADMIN_USERNAME"),
		FirstName:      config.Config("ADMIN_FIRST_NAME"),
		LastName:       config.Config("ADMIN_LAST_NAME"),
		PasswordHash:   string(hashedPassword),
		Specialization: "administration",
		LicenseNumber:  config.Config("ADMIN_LICENSE_NUMBER"),
		IsModerator:    true,
		IsAdmin:        true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}
