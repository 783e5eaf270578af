package handlers

import (
	"strconv"

	"veritier/internal/models"
	"veritier/internal/services/trust"
	"veritier/internal/utils/pagination"
	"veritier/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminVerificationHandler exposes the review workflow. Admin authority is
// enforced by middleware on the route group, not re-checked per handler.
type AdminVerificationHandler struct {
	service trust.Service
}

func NewAdminVerificationHandler(s trust.Service) *AdminVerificationHandler {
	return &AdminVerificationHandler{service: s}
}

// ListVerifications lists submissions filtered by status and role, newest
// first.
func (h *AdminVerificationHandler) ListVerifications(c *fiber.Ctx) error {
	var filter trust.ListFilter

	if q := c.Query("status"); q != "" {
		s := models.VerificationStatus(q)
		switch s {
		case models.StatusPending, models.StatusApproved, models.StatusRejected:
			filter.Status = &s
		default:
			return response.BadRequest(c, "unknown status filter")
		}
	}
	if q := c.Query("role"); q != "" {
		r := models.Role(q)
		if !r.Verifiable() {
			return response.BadRequest(c, "unknown role filter")
		}
		filter.Role = &r
	}

	p := pagination.ParseFromRequest(c)
	recs, total, err := h.service.List(c.Context(), filter, p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, recs))
}

// GetVerification returns one record with sensitive evidence fields
// decrypted for review.
func (h *AdminVerificationHandler) GetVerification(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid verification id")
	}

	rec, err := h.service.GetForReview(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "verification", rec)
}

// ApproveVerification finalizes a submission and updates the user's trust
// cache for that role.
func (h *AdminVerificationHandler) ApproveVerification(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid verification id")
	}

	var input struct {
		Notes string `json:"notes"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "invalid request body")
		}
	}

	rec, err := h.service.Approve(c.Context(), id, claims.UserID, input.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "verification approved", rec)
}

// RejectVerification finalizes a submission as rejected. A reason is
// mandatory; the trust cache is left untouched.
func (h *AdminVerificationHandler) RejectVerification(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid verification id")
	}

	var input struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	rec, err := h.service.Reject(c.Context(), id, claims.UserID, input.Reason, input.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "verification rejected", rec)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return uint(id), err
}
