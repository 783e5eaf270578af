package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "veritier/internal/errors"
	"veritier/internal/models"
	"veritier/internal/repositories/cache"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

// UserRepository is the user directory: profile lookups plus the per-role
// trust cache the review workflow writes.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetTrustLevel(ctx context.Context, userID uint, role models.Role, level models.TrustLevel) error
	SetEmailVerified(ctx context.Context, userID uint, verified bool) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return storeErr(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	key := r.cache.GenerateKey("user", "id", id)
	if user, err := r.cache.GetUser(ctx, key); err == nil {
		return user, nil
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr(err)
	}

	if err := r.cache.CacheUser(ctx, &user); err != nil {
		// Cache population failure is not fatal; the next read hits the DB.
		return &user, nil
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr(err)
	}
	return &user, nil
}

// SetTrustLevel writes one trust cache slot and invalidates the cached user.
// Always reads through to the database so a stale cache entry can never be
// written back.
func (r *userRepository) SetTrustLevel(ctx context.Context, userID uint, role models.Role, level models.TrustLevel) error {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return storeErr(err)
	}

	if err := user.SetTrustLevel(role, level); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidRole, err)
	}

	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		return storeErr(err)
	}
	return r.cache.InvalidateUser(ctx, userID)
}

func (r *userRepository) SetEmailVerified(ctx context.Context, userID uint, verified bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("email_verified", verified)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return r.cache.InvalidateUser(ctx, userID)
}
