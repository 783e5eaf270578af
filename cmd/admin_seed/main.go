// Command admin_seed provisions an admin account. Admins never go through
// the verification flow; this tool is the out-of-band path.
package main

import (
	"log"
	"os"
	"time"

	"veritier/internal/config"
	"veritier/internal/models"
	"veritier/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminName := os.Getenv("ADMIN_NAME")
	if adminEmail == "" {
		log.Fatal("ADMIN_EMAIL must be set in environment")
	}
	if adminName == "" {
		adminName = "Administrator"
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	var existingAdmin models.User
	result := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		printBootstrapToken(&existingAdmin)
		return
	}

	adminUser := models.User{
		Email:         adminEmail,
		Name:          adminName,
		Role:          models.RoleAdmin,
		EmailVerified: true,
		TokenVersion:  1,
	}
	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Admin account created successfully!")
	printBootstrapToken(&adminUser)
}

// printBootstrapToken emits a short-lived token so the admin can reach the
// review endpoints before the identity provider knows about the account.
func printBootstrapToken(admin *models.User) {
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:        admin.ID,
		Email:         admin.Email,
		EmailVerified: admin.EmailVerified,
		Role:          models.RoleAdmin,
		Permissions:   models.GetDefaultPermissions(models.RoleAdmin),
		TokenVersion:  admin.TokenVersion,
	}

	secret := config.GetSecretEnv("JWT_SECRET", "dev-only-jwt-secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatal("Failed to sign bootstrap token:", err)
	}
	log.Printf("Bootstrap token (24h): %s", token)
}
