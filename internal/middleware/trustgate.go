package middleware

import (
	"context"
	"log"

	apperrors "veritier/internal/errors"
	"veritier/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LevelResolver resolves a user's effective trust level for a role. ok is
// false when the user has no level at all, which sits below L0.
type LevelResolver interface {
	EffectiveLevel(ctx context.Context, userID uint, role models.Role) (models.TrustLevel, bool, error)
}

// RequireTrustLevel gates a route on a minimum trust level. With no role
// argument the principal's own role is checked; an explicit role gates
// cross-role actions (for example a student booking a mentor feature).
//
// The gate fails closed: any resolution failure is treated as
// "requirement not met".
func RequireTrustLevel(resolver LevelResolver, minLevel models.TrustLevel, role ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !minLevel.Valid() {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "invalid trust level requirement",
			})
		}

		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		gateRole := claims.Role
		if len(role) > 0 {
			gateRole = role[0]
		}

		level, hasLevel, err := resolver.EffectiveLevel(c.Context(), claims.UserID, gateRole)
		if err != nil {
			log.Printf("trust gate: resolution failed for user %d role %s: %v", claims.UserID, gateRole, err)
			return deny(c, minLevel, nil)
		}
		if !hasLevel {
			return deny(c, minLevel, nil)
		}
		if level < minLevel {
			return deny(c, minLevel, &level)
		}

		return c.Next()
	}
}

func deny(c *fiber.Ctx, required models.TrustLevel, actual *models.TrustLevel) error {
	// The wire format comes from the error catalogue so the two can't drift.
	body := fiber.Map{
		"error":          apperrors.ErrInsufficientTrustLevel.Message,
		"code":           apperrors.ErrInsufficientTrustLevel.Code,
		"required_level": required.String(),
	}
	if actual != nil {
		body["actual_level"] = actual.String()
	} else {
		body["actual_level"] = "none"
	}
	return c.Status(fiber.StatusForbidden).JSON(body)
}
