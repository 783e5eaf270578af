// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"log"

	"veritier/internal/config"
	"veritier/internal/crypto"
	"veritier/internal/handlers"
	"veritier/internal/middleware"
	"veritier/internal/models"
	"veritier/internal/repositories"
	"veritier/internal/services/trust"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	verificationRepo := repositories.NewVerificationRepository(db)
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)

	// Field-level encryption. Both values are mandatory in production;
	// config.GetSecretEnv aborts startup when they are missing there.
	codec, err := crypto.NewCodec(
		config.GetSecretEnv("VERIFY_ENC_SECRET", "dev-only-secret"),
		config.GetSecretEnv("VERIFY_ENC_SALT", "dev-only-salt"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize crypto codec: %v", err)
	}

	trustService := trust.NewService(verificationRepo, userRepo, codec, trust.Config{
		Derive: trust.DeriveOptions{
			CumulativeTiers: config.GetEnv("TRUST_CUMULATIVE_TIERS", "false") == "true",
		},
	})

	verificationHandler := handlers.NewVerificationHandler(trustService)
	adminHandler := handlers.NewAdminVerificationHandler(trustService)

	jwtSecret := config.GetSecretEnv("JWT_SECRET", "dev-only-jwt-secret")
	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Veritier API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	protected := api.Use(authMiddleware.Handler)

	setupVerificationRoutes(protected, verificationHandler, trustService)
	setupAdminRoutes(app, authMiddleware, adminHandler)
}

func setupVerificationRoutes(router fiber.Router, h *handlers.VerificationHandler, resolver middleware.LevelResolver) {
	verification := router.Group("/verification")
	verification.Post("/", middleware.HasPermission(models.PermissionVerificationSubmit), h.SubmitVerification)
	verification.Get("/", middleware.HasPermission(models.PermissionVerificationRead), h.GetStatus)

	// Shareable attestation of verified status, itself level-gated.
	verification.Get("/certificate",
		middleware.RequireTrustLevel(resolver, models.Level1),
		h.Certificate)

	// Gate check as an endpoint; other route groups use the middleware
	// form above.
	router.Get("/gate/check", h.GateCheck)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, h *handlers.AdminVerificationHandler) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	verifications := admin.Group("/verifications", middleware.HasPermission(models.PermissionVerificationReview))
	verifications.Get("/", h.ListVerifications)
	verifications.Get("/:id", h.GetVerification)
	verifications.Post("/:id/approve", h.ApproveVerification)
	verifications.Post("/:id/reject", h.RejectVerification)
}
