package handlers

import (
	"veritier/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports the service and its backing stores. The verification
// store failing here is the same condition that makes the trust gate fail
// closed, so operators see it in one place.
func HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if repositories.DB == nil {
		dbStatus = "unavailable"
	} else if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "connected"
	if repositories.CacheService == nil || repositories.CacheService.HealthCheck(c.Context()) != nil {
		redisStatus = "unavailable"
	}

	status := "ok"
	code := fiber.StatusOK
	if dbStatus != "connected" {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"version": "1.0.0",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
