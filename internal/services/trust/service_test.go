package trust

import (
	"context"
	"strings"
	"testing"

	apperrors "veritier/internal/errors"
	"veritier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVerificationRepo struct {
	mock.Mock
}

func (m *MockVerificationRepo) GetByID(ctx context.Context, id uint) (*models.VerificationRecord, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*models.VerificationRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepo) GetByUserRole(ctx context.Context, userID uint, role models.Role) (*models.VerificationRecord, error) {
	args := m.Called(ctx, userID, role)
	if rec, ok := args.Get(0).(*models.VerificationRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepo) ListByUser(ctx context.Context, userID uint, role *models.Role) ([]models.VerificationRecord, error) {
	args := m.Called(ctx, userID, role)
	if recs, ok := args.Get(0).([]models.VerificationRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepo) LatestApproved(ctx context.Context, userID uint, role models.Role) (*models.VerificationRecord, error) {
	args := m.Called(ctx, userID, role)
	if rec, ok := args.Get(0).(*models.VerificationRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepo) Submit(ctx context.Context, rec *models.VerificationRecord) (*models.VerificationRecord, error) {
	args := m.Called(ctx, rec)
	if out, ok := args.Get(0).(*models.VerificationRecord); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepo) Save(ctx context.Context, rec *models.VerificationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockVerificationRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]models.VerificationRecord, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if recs, ok := args.Get(0).([]models.VerificationRecord); ok {
		return recs, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserDirectory) SetTrustLevel(ctx context.Context, userID uint, role models.Role, level models.TrustLevel) error {
	args := m.Called(ctx, userID, role, level)
	return args.Error(0)
}

// fakeCipher marks fields instead of encrypting, making transformations
// easy to assert on.
type fakeCipher struct {
	failDecrypt bool
}

func (f *fakeCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return "enc:" + plaintext, nil
}

func (f *fakeCipher) Decrypt(blob string) (string, error) {
	if f.failDecrypt {
		return "", apperrors.ErrDecryptionFailed
	}
	return strings.TrimPrefix(blob, "enc:"), nil
}

func newTestService(repo *MockVerificationRepo, users *MockUserDirectory) Service {
	return NewService(repo, users, &fakeCipher{}, Config{})
}

func mentorBundle() models.EvidenceBundle {
	return models.EvidenceBundle{
		Identity: &models.IdentityProof{
			DocumentType:   "passport",
			DocumentNumber: "P1234567",
			DocumentURL:    "https://docs.example.com/passport.pdf",
		},
		Details: models.MentorDetails{
			Professional: &models.ProfessionalCredentials{Title: "Staff Engineer"},
			Bank:         &models.BankDetails{BankName: "First", AccountName: "J", AccountNumber: "12345678"},
		},
	}
}

func TestService_Submit(t *testing.T) {
	t.Run("stores pending record with derived level and encrypted fields", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		repo.On("Submit", mock.Anything, mock.MatchedBy(func(rec *models.VerificationRecord) bool {
			bank := rec.Evidence.Details.(models.MentorDetails).Bank
			return rec.UserID == 7 &&
				rec.Role == models.RoleMentor &&
				rec.Level == models.Level2 &&
				rec.Status == models.StatusPending &&
				rec.Reference != "" &&
				rec.Evidence.Identity.DocumentNumber == "enc:P1234567" &&
				bank.AccountNumber == "enc:12345678"
		})).Return(&models.VerificationRecord{}, nil)

		_, err := svc.Submit(context.Background(), SubmitInput{
			UserID:        7,
			Role:          models.RoleMentor,
			EmailVerified: true,
			Evidence:      mentorBundle(),
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("client-supplied level is advisory only", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		svc := newTestService(repo, new(MockUserDirectory))

		requested := models.Level3
		repo.On("Submit", mock.Anything, mock.MatchedBy(func(rec *models.VerificationRecord) bool {
			return rec.Level == models.Level0
		})).Return(&models.VerificationRecord{}, nil)

		_, err := svc.Submit(context.Background(), SubmitInput{
			UserID:         7,
			Role:           models.RoleStudent,
			EmailVerified:  true,
			RequestedLevel: &requested,
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects non-verifiable role", func(t *testing.T) {
		svc := newTestService(new(MockVerificationRepo), new(MockUserDirectory))

		_, err := svc.Submit(context.Background(), SubmitInput{UserID: 7, Role: models.RoleAdmin})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)

		_, err = svc.Submit(context.Background(), SubmitInput{UserID: 7, Role: "alien"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("rejects evidence for a different role", func(t *testing.T) {
		svc := newTestService(new(MockVerificationRepo), new(MockUserDirectory))

		_, err := svc.Submit(context.Background(), SubmitInput{
			UserID:        7,
			Role:          models.RoleStudent,
			EmailVerified: true,
			Evidence:      mentorBundle(),
		})
		assert.ErrorIs(t, err, apperrors.ErrEvidenceRoleMismatch)
	})

	t.Run("rejects submission satisfying no tier", func(t *testing.T) {
		svc := newTestService(new(MockVerificationRepo), new(MockUserDirectory))

		_, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 7,
			Role:   models.RoleStudent,
		})
		assert.ErrorIs(t, err, apperrors.ErrNoQualifyingEvidence)
	})
}

func TestService_Approve(t *testing.T) {
	pendingRecord := func() *models.VerificationRecord {
		rec := &models.VerificationRecord{
			UserID:   7,
			Role:     models.RoleMentor,
			Level:    models.Level2,
			Status:   models.StatusPending,
			Evidence: mentorBundle(),
		}
		rec.ID = 42
		return rec
	}
	verifiedUser := &models.User{EmailVerified: true}

	t.Run("approves and writes the trust cache", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		repo.On("GetByID", mock.Anything, uint(42)).Return(pendingRecord(), nil)
		users.On("GetByID", mock.Anything, uint(7)).Return(verifiedUser, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		users.On("SetTrustLevel", mock.Anything, uint(7), models.RoleMentor, models.Level2).Return(nil)

		rec, err := svc.Approve(context.Background(), 42, 99, "looks good")
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, rec.Status)
		require.NotNil(t, rec.ReviewedBy)
		assert.Equal(t, uint(99), *rec.ReviewedBy)
		assert.NotNil(t, rec.ReviewedAt)
		assert.Equal(t, "looks good", rec.AdminNotes)

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("re-derives the level instead of trusting the stored one", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		// Stored level claims L3 but the evidence only supports L2.
		rec := pendingRecord()
		rec.Level = models.Level3

		repo.On("GetByID", mock.Anything, uint(42)).Return(rec, nil)
		users.On("GetByID", mock.Anything, uint(7)).Return(verifiedUser, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		users.On("SetTrustLevel", mock.Anything, uint(7), models.RoleMentor, models.Level2).Return(nil)

		out, err := svc.Approve(context.Background(), 42, 99, "")
		require.NoError(t, err)
		assert.Equal(t, models.Level2, out.Level)
		users.AssertExpectations(t)
	})

	t.Run("re-approving an approved record is idempotent", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		rec := pendingRecord()
		rec.Status = models.StatusApproved

		repo.On("GetByID", mock.Anything, uint(42)).Return(rec, nil)
		users.On("GetByID", mock.Anything, uint(7)).Return(verifiedUser, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		users.On("SetTrustLevel", mock.Anything, uint(7), models.RoleMentor, models.Level2).Return(nil)

		out, err := svc.Approve(context.Background(), 42, 99, "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, out.Status)
	})

	t.Run("approving an unknown id fails", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		svc := newTestService(repo, new(MockUserDirectory))

		repo.On("GetByID", mock.Anything, uint(404)).Return(nil, apperrors.ErrVerificationNotFound)

		_, err := svc.Approve(context.Background(), 404, 99, "")
		assert.ErrorIs(t, err, apperrors.ErrVerificationNotFound)
	})

	t.Run("approving a rejected record fails", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		svc := newTestService(repo, new(MockUserDirectory))

		rec := pendingRecord()
		rec.Status = models.StatusRejected
		repo.On("GetByID", mock.Anything, uint(42)).Return(rec, nil)

		_, err := svc.Approve(context.Background(), 42, 99, "")
		assert.ErrorIs(t, err, apperrors.ErrReviewStateInvalid)
	})
}

func TestService_Reject(t *testing.T) {
	t.Run("rejects with reason and leaves the cache alone", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		rec := &models.VerificationRecord{
			UserID: 7,
			Role:   models.RoleStudent,
			Status: models.StatusPending,
		}
		rec.ID = 42

		repo.On("GetByID", mock.Anything, uint(42)).Return(rec, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		out, err := svc.Reject(context.Background(), 42, 99, "document blurry", "resubmit a sharper scan")
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, out.Status)
		assert.Equal(t, "document blurry", out.RejectionReason)
		assert.Equal(t, "resubmit a sharper scan", out.AdminNotes)

		users.AssertNotCalled(t, "SetTrustLevel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		svc := newTestService(new(MockVerificationRepo), new(MockUserDirectory))

		_, err := svc.Reject(context.Background(), 42, 99, "", "")
		assert.ErrorIs(t, err, apperrors.ErrRejectionReasonRequired)
	})

	t.Run("rejecting an approved record fails", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		svc := newTestService(repo, new(MockUserDirectory))

		rec := &models.VerificationRecord{Status: models.StatusApproved}
		rec.ID = 42
		repo.On("GetByID", mock.Anything, uint(42)).Return(rec, nil)

		_, err := svc.Reject(context.Background(), 42, 99, "nope", "")
		assert.ErrorIs(t, err, apperrors.ErrReviewStateInvalid)
	})
}

func TestService_EffectiveLevel(t *testing.T) {
	t.Run("cache slot wins", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		user := &models.User{EmailVerified: true}
		require.NoError(t, user.SetTrustLevel(models.RoleMentor, models.Level2))
		users.On("GetByID", mock.Anything, uint(7)).Return(user, nil)

		level, ok, err := svc.EffectiveLevel(context.Background(), 7, models.RoleMentor)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.Level2, level)

		repo.AssertNotCalled(t, "LatestApproved", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls back to the latest approved record", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		users.On("GetByID", mock.Anything, uint(7)).Return(&models.User{}, nil)
		repo.On("LatestApproved", mock.Anything, uint(7), models.RoleStudent).
			Return(&models.VerificationRecord{Level: models.Level1}, nil)

		level, ok, err := svc.EffectiveLevel(context.Background(), 7, models.RoleStudent)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.Level1, level)
	})

	t.Run("verified email means L0", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		users.On("GetByID", mock.Anything, uint(7)).Return(&models.User{EmailVerified: true}, nil)
		repo.On("LatestApproved", mock.Anything, uint(7), models.RoleStudent).
			Return(nil, apperrors.ErrVerificationNotFound)

		level, ok, err := svc.EffectiveLevel(context.Background(), 7, models.RoleStudent)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.Level0, level)
	})

	t.Run("unverified email with no records means no level", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		users.On("GetByID", mock.Anything, uint(7)).Return(&models.User{}, nil)
		repo.On("LatestApproved", mock.Anything, uint(7), models.RoleStudent).
			Return(nil, apperrors.ErrVerificationNotFound)

		_, ok, err := svc.EffectiveLevel(context.Background(), 7, models.RoleStudent)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store failure propagates so the gate can fail closed", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		users := new(MockUserDirectory)
		svc := newTestService(repo, users)

		users.On("GetByID", mock.Anything, uint(7)).Return(&models.User{}, nil)
		repo.On("LatestApproved", mock.Anything, uint(7), models.RoleStudent).
			Return(nil, apperrors.ErrStoreUnavailable)

		_, _, err := svc.EffectiveLevel(context.Background(), 7, models.RoleStudent)
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})
}

func TestService_GetForReview(t *testing.T) {
	t.Run("decrypts sensitive fields", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		svc := newTestService(repo, new(MockUserDirectory))

		rec := &models.VerificationRecord{Evidence: models.EvidenceBundle{
			Identity: &models.IdentityProof{DocumentNumber: "enc:P1234567", DocumentURL: "https://x/id.pdf"},
		}}
		rec.ID = 42
		repo.On("GetByID", mock.Anything, uint(42)).Return(rec, nil)

		out, err := svc.GetForReview(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, "P1234567", out.Evidence.Identity.DocumentNumber)
	})

	t.Run("decrypt failure surfaces instead of partial data", func(t *testing.T) {
		repo := new(MockVerificationRepo)
		svc := NewService(repo, new(MockUserDirectory), &fakeCipher{failDecrypt: true}, Config{})

		rec := &models.VerificationRecord{Evidence: models.EvidenceBundle{
			Identity: &models.IdentityProof{DocumentNumber: "garbage"},
		}}
		rec.ID = 42
		repo.On("GetByID", mock.Anything, uint(42)).Return(rec, nil)

		_, err := svc.GetForReview(context.Background(), 42)
		assert.ErrorIs(t, err, apperrors.ErrDecryptionFailed)
	})
}

func TestService_List_ClampsPagination(t *testing.T) {
	repo := new(MockVerificationRepo)
	svc := newTestService(repo, new(MockUserDirectory))

	repo.On("List", mock.Anything, ListFilter{}, MaxPageLimit, 0).
		Return([]models.VerificationRecord{}, int64(0), nil)
	repo.On("List", mock.Anything, ListFilter{}, DefaultPageLimit, DefaultPageLimit).
		Return([]models.VerificationRecord{}, int64(0), nil)

	_, _, err := svc.List(context.Background(), ListFilter{}, 0, 1000)
	require.NoError(t, err)

	_, _, err = svc.List(context.Background(), ListFilter{}, 2, -1)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
