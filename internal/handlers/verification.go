package handlers

import (
	"strconv"

	"veritier/internal/models"
	"veritier/internal/services/trust"
	"veritier/internal/utils/response"
	"veritier/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type VerificationHandler struct {
	service trust.Service
}

func NewVerificationHandler(s trust.Service) *VerificationHandler {
	return &VerificationHandler{service: s}
}

// verificationView is the client-facing shape of a record. Evidence is
// omitted: sensitive fields are ciphertext and the owner already has the
// originals.
type verificationView struct {
	Reference       string                    `json:"reference"`
	Role            models.Role               `json:"role"`
	Level           models.TrustLevel         `json:"level"`
	Status          models.VerificationStatus `json:"status"`
	SubmittedAt     string                    `json:"submitted_at"`
	RejectionReason string                    `json:"rejection_reason,omitempty"`
}

func toView(rec *models.VerificationRecord) verificationView {
	return verificationView{
		Reference:       rec.Reference,
		Role:            rec.Role,
		Level:           rec.Level,
		Status:          rec.Status,
		SubmittedAt:     rec.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
		RejectionReason: rec.RejectionReason,
	}
}

// SubmitVerification accepts an evidence bundle for the caller's chosen
// role, derives a proposed level and stores the submission as pending.
func (h *VerificationHandler) SubmitVerification(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Role     string                `json:"role"`
		Level    *models.TrustLevel    `json:"level,omitempty"`
		Evidence models.EvidenceBundle `json:"evidence"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	role := models.Role(input.Role)
	if v := validation.ValidateSubmission(role, &input.Evidence); !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": v.Errors,
		})
	}

	rec, err := h.service.Submit(c.Context(), trust.SubmitInput{
		UserID:         claims.UserID,
		Role:           role,
		EmailVerified:  claims.EmailVerified,
		Evidence:       input.Evidence,
		RequestedLevel: input.Level,
	})
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "verification submitted", toView(rec))
}

// GetStatus returns the caller's verification records, optionally filtered
// by role.
func (h *VerificationHandler) GetStatus(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var role *models.Role
	if q := c.Query("role"); q != "" {
		r := models.Role(q)
		role = &r
	}

	recs, err := h.service.GetOwn(c.Context(), claims.UserID, role)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]verificationView, 0, len(recs))
	for i := range recs {
		views = append(views, toView(&recs[i]))
	}
	return response.Success(c, "verification status", views)
}

// Certificate returns a shareable attestation of the caller's verified
// status for their role. The route is gated at L1, so reaching this handler
// already proves identity evidence was approved.
func (h *VerificationHandler) Certificate(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	role := claims.Role
	recs, err := h.service.GetOwn(c.Context(), claims.UserID, &role)
	if err != nil {
		return respondError(c, err)
	}

	for i := range recs {
		if recs[i].Status == models.StatusApproved {
			return response.Success(c, "verification certificate", fiber.Map{
				"reference":   recs[i].Reference,
				"role":        recs[i].Role,
				"level":       recs[i].Level.String(),
				"verified_at": recs[i].ReviewedAt,
			})
		}
	}
	return response.Error(c, fiber.StatusNotFound, "no approved verification on file")
}

// GateCheck resolves the caller's effective level against a required level,
// the same decision the gate middleware makes, exposed as an endpoint.
func (h *VerificationHandler) GateCheck(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	required, err := strconv.Atoi(c.Query("level", "0"))
	if err != nil || !models.TrustLevel(required).Valid() {
		return response.BadRequest(c, "level must be between 0 and 3")
	}

	role := claims.Role
	if q := c.Query("role"); q != "" {
		role = models.Role(q)
	}

	level, hasLevel, err := h.service.EffectiveLevel(c.Context(), claims.UserID, role)
	if err != nil {
		return respondError(c, err)
	}

	actual := "none"
	if hasLevel {
		actual = level.String()
	}
	return response.Success(c, "gate check", fiber.Map{
		"role":           role,
		"required_level": models.TrustLevel(required).String(),
		"actual_level":   actual,
		"allowed":        hasLevel && level >= models.TrustLevel(required),
	})
}
