package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "veritier/internal/errors"
	"veritier/internal/models"
	"veritier/internal/services/trust"

	"gorm.io/gorm"
)

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates the gorm-backed verification store.
func NewVerificationRepository(db *gorm.DB) trust.VerificationRepository {
	return &verificationRepository{db: db}
}

// storeErr maps infrastructure failures onto the retryable-unavailable
// signal callers expect during a persistence outage.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}

func (r *verificationRepository) GetByID(ctx context.Context, id uint) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVerificationNotFound
		}
		return nil, storeErr(err)
	}
	return &rec, nil
}

func (r *verificationRepository) GetByUserRole(ctx context.Context, userID uint, role models.Role) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVerificationNotFound
		}
		return nil, storeErr(err)
	}
	return &rec, nil
}

func (r *verificationRepository) ListByUser(ctx context.Context, userID uint, role *models.Role) ([]models.VerificationRecord, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if role != nil {
		q = q.Where("role = ?", *role)
	}

	var recs []models.VerificationRecord
	if err := q.Order("submitted_at DESC").Find(&recs).Error; err != nil {
		return nil, storeErr(err)
	}
	return recs, nil
}

func (r *verificationRepository) LatestApproved(ctx context.Context, userID uint, role models.Role) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ? AND status = ?", userID, role, models.StatusApproved).
		Order("submitted_at DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVerificationNotFound
		}
		return nil, storeErr(err)
	}
	return &rec, nil
}

// Submit upserts the record for (user, role). A concurrent first submission
// loses the insert race on the unique index and is retried as an update, so
// exactly one record ever exists per pair.
func (r *verificationRepository) Submit(ctx context.Context, rec *models.VerificationRecord) (*models.VerificationRecord, error) {
	existing, err := r.GetByUserRole(ctx, rec.UserID, rec.Role)
	if err == nil {
		return r.resubmit(ctx, existing, rec)
	}
	if !errors.Is(err, apperrors.ErrVerificationNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := r.GetByUserRole(ctx, rec.UserID, rec.Role)
			if lookupErr != nil {
				return nil, apperrors.ErrVerificationConflict
			}
			return r.resubmit(ctx, existing, rec)
		}
		return nil, storeErr(err)
	}
	return rec, nil
}

// resubmit overwrites the evidence on an existing record and resets it to
// pending. The record identity (and its external reference) is kept.
func (r *verificationRepository) resubmit(ctx context.Context, existing, rec *models.VerificationRecord) (*models.VerificationRecord, error) {
	existing.Level = rec.Level
	existing.Evidence = rec.Evidence
	existing.Status = models.StatusPending
	existing.SubmittedAt = rec.SubmittedAt
	existing.ReviewedBy = nil
	existing.ReviewedAt = nil
	existing.RejectionReason = ""
	existing.AdminNotes = ""

	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, storeErr(err)
	}
	return existing, nil
}

func (r *verificationRepository) Save(ctx context.Context, rec *models.VerificationRecord) error {
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *verificationRepository) List(ctx context.Context, filter trust.ListFilter, limit, offset int) ([]models.VerificationRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.VerificationRecord{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	var recs []models.VerificationRecord
	err := q.Order("submitted_at DESC").Limit(limit).Offset(offset).Find(&recs).Error
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return recs, total, nil
}
