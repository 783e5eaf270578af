package trust

import (
	"context"

	"veritier/internal/models"
)

// Config holds service-level settings.
type Config struct {
	Derive DeriveOptions
}

// SubmitInput is one evidence submission.
type SubmitInput struct {
	UserID        uint
	Role          models.Role
	EmailVerified bool
	Evidence      models.EvidenceBundle

	// RequestedLevel is advisory only. The stored level always comes from
	// derivation, and the authoritative level is re-derived at approval.
	RequestedLevel *models.TrustLevel
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Status *models.VerificationStatus
	Role   *models.Role
}

// VerificationRepository is the persistence port for verification records.
type VerificationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.VerificationRecord, error)
	GetByUserRole(ctx context.Context, userID uint, role models.Role) (*models.VerificationRecord, error)
	ListByUser(ctx context.Context, userID uint, role *models.Role) ([]models.VerificationRecord, error)
	LatestApproved(ctx context.Context, userID uint, role models.Role) (*models.VerificationRecord, error)
	// Submit upserts the record for (userID, role): create as pending, or
	// overwrite evidence and reset to pending. Concurrent first
	// submissions must collapse onto one record.
	Submit(ctx context.Context, rec *models.VerificationRecord) (*models.VerificationRecord, error)
	Save(ctx context.Context, rec *models.VerificationRecord) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]models.VerificationRecord, int64, error)
}

// UserDirectory is the slice of the user store this service needs: the
// email-verified flag and the per-role trust cache.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	SetTrustLevel(ctx context.Context, userID uint, role models.Role, level models.TrustLevel) error
}

// Service drives submissions, the review workflow and trust resolution.
type Service interface {
	Submit(ctx context.Context, in SubmitInput) (*models.VerificationRecord, error)
	GetOwn(ctx context.Context, userID uint, role *models.Role) ([]models.VerificationRecord, error)
	GetForReview(ctx context.Context, id uint) (*models.VerificationRecord, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]models.VerificationRecord, int64, error)
	Approve(ctx context.Context, id, reviewerID uint, notes string) (*models.VerificationRecord, error)
	Reject(ctx context.Context, id, reviewerID uint, reason, notes string) (*models.VerificationRecord, error)
	// EffectiveLevel resolves the level the gate compares against:
	// cache slot first, then the latest approved record, then L0 for a
	// verified email. ok is false when the user has no level at all.
	EffectiveLevel(ctx context.Context, userID uint, role models.Role) (models.TrustLevel, bool, error)
}
