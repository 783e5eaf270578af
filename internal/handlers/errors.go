package handlers

import (
	"errors"
	"log"

	apperrors "veritier/internal/errors"
	"veritier/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors onto HTTP statuses. Anything unmapped is
// a 500 with a generic message; internals never leak to clients.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		log.Printf("unhandled error: %v", err)
		return response.ServerError(c, "internal server error")
	}

	status := fiber.StatusInternalServerError
	switch domainErr {
	case apperrors.ErrInvalidRole,
		apperrors.ErrEvidenceRoleMismatch,
		apperrors.ErrNoQualifyingEvidence,
		apperrors.ErrRejectionReasonRequired:
		status = fiber.StatusBadRequest
	case apperrors.ErrVerificationNotFound:
		status = fiber.StatusNotFound
	case apperrors.ErrVerificationConflict,
		apperrors.ErrReviewStateInvalid:
		status = fiber.StatusConflict
	case apperrors.ErrInsufficientTrustLevel:
		status = fiber.StatusForbidden
	case apperrors.ErrStoreUnavailable:
		status = fiber.StatusServiceUnavailable
	case apperrors.ErrCiphertextMalformed, apperrors.ErrDecryptionFailed:
		log.Printf("crypto failure: %v", err)
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"error": domainErr.Message,
		"code":  domainErr.Code,
	})
}
