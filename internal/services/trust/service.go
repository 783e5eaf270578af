package trust

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "veritier/internal/errors"
	"veritier/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type service struct {
	repo   VerificationRepository
	users  UserDirectory
	cipher models.FieldCipher
	cfg    Config
}

// NewService creates the verification service.
func NewService(repo VerificationRepository, users UserDirectory, cipher models.FieldCipher, cfg Config) Service {
	return &service{
		repo:   repo,
		users:  users,
		cipher: cipher,
		cfg:    cfg,
	}
}

func (s *service) Submit(ctx context.Context, in SubmitInput) (*models.VerificationRecord, error) {
	if !in.Role.Verifiable() {
		return nil, apperrors.ErrInvalidRole
	}
	if in.Evidence.Details != nil && in.Evidence.Details.DetailsRole() != in.Role {
		return nil, apperrors.ErrEvidenceRoleMismatch
	}

	level, ok := DeriveLevel(in.Role, in.EmailVerified, in.Evidence, s.cfg.Derive)
	if !ok {
		return nil, apperrors.ErrNoQualifyingEvidence
	}
	if in.RequestedLevel != nil && *in.RequestedLevel != level {
		// Client-supplied levels are advisory; derivation wins.
		log.Printf("submission for user %d role %s requested %s, derived %s",
			in.UserID, in.Role, *in.RequestedLevel, level)
	}

	if err := in.Evidence.EncryptSensitive(s.cipher); err != nil {
		return nil, err
	}

	rec := &models.VerificationRecord{
		Reference:   uuid.NewString(),
		UserID:      in.UserID,
		Role:        in.Role,
		Level:       level,
		Status:      models.StatusPending,
		Evidence:    in.Evidence,
		SubmittedAt: time.Now().UTC(),
	}
	return s.repo.Submit(ctx, rec)
}

func (s *service) GetOwn(ctx context.Context, userID uint, role *models.Role) ([]models.VerificationRecord, error) {
	if role != nil && !role.Verifiable() {
		return nil, apperrors.ErrInvalidRole
	}
	return s.repo.ListByUser(ctx, userID, role)
}

// GetForReview fetches one record with sensitive fields decrypted for the
// reviewing admin. A decrypt failure surfaces as an error, never as partial
// data.
func (s *service) GetForReview(ctx context.Context, id uint) (*models.VerificationRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rec.Evidence.DecryptSensitive(s.cipher); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page, limit int) ([]models.VerificationRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return s.repo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *service) Approve(ctx context.Context, id, reviewerID uint, notes string) (*models.VerificationRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == models.StatusRejected {
		return nil, apperrors.ErrReviewStateInvalid
	}

	user, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}

	// The stored level came from the submission path and may have been
	// requested by the client; re-derive from the evidence on file and use
	// that. Presence predicates see ciphertext blobs the same as
	// plaintext, so no decryption is needed here.
	if level, ok := DeriveLevel(rec.Role, user.EmailVerified, rec.Evidence, s.cfg.Derive); ok {
		if level != rec.Level {
			log.Printf("verification %d: stored level %s, re-derived %s; using re-derived",
				rec.ID, rec.Level, level)
		}
		rec.Level = level
	}

	now := time.Now().UTC()
	rec.Status = models.StatusApproved
	rec.ReviewedBy = &reviewerID
	rec.ReviewedAt = &now
	rec.RejectionReason = ""
	if notes != "" {
		rec.AdminNotes = notes
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.users.SetTrustLevel(ctx, rec.UserID, rec.Role, rec.Level); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Reject(ctx context.Context, id, reviewerID uint, reason, notes string) (*models.VerificationRecord, error) {
	if reason == "" {
		return nil, apperrors.ErrRejectionReasonRequired
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == models.StatusApproved {
		return nil, apperrors.ErrReviewStateInvalid
	}

	now := time.Now().UTC()
	rec.Status = models.StatusRejected
	rec.ReviewedBy = &reviewerID
	rec.ReviewedAt = &now
	rec.RejectionReason = reason
	if notes != "" {
		rec.AdminNotes = notes
	}

	// The trust cache is deliberately untouched: rejection never demotes a
	// previously approved level.
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) EffectiveLevel(ctx context.Context, userID uint, role models.Role) (models.TrustLevel, bool, error) {
	if !role.Verifiable() {
		return 0, false, apperrors.ErrInvalidRole
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if level, ok := user.TrustLevelFor(role); ok {
		return level, true, nil
	}

	rec, err := s.repo.LatestApproved(ctx, userID, role)
	switch {
	case err == nil:
		return rec.Level, true, nil
	case !errors.Is(err, apperrors.ErrVerificationNotFound):
		return 0, false, err
	}

	if user.EmailVerified {
		return models.Level0, true, nil
	}
	return 0, false, nil
}
