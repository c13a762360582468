package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/identity-api/internal/domain/entity"
	apperrors "github.com/yourusername/identity-api/internal/pkg/errors"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", apperrors.ErrConflict, user.Email)
		}
		return err
	}
	return nil
}

// GetByID returns a user by ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns a user by email using a case-insensitive match on the
// normalized (lower-cased) address.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmailOrCreate looks the user up and creates an unverified account if
// none exists. Concurrent creation for the same email is resolved by the
// unique index on lower(email): the loser re-reads the winner's row instead
// of duplicating it.
func (r *UserRepo) GetByEmailOrCreate(email string) (*entity.User, bool, error) {
	user, err := r.GetByEmail(email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	created := &entity.User{
		Email:         email,
		EmailVerified: false,
		IsAdmin:       false,
	}
	if err := r.db.Create(created).Error; err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := r.GetByEmail(email)
			if lookupErr != nil {
				return nil, false, fmt.Errorf("lookup after unique violation for %s failed: %w", email, lookupErr)
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return created, true, nil
}

// MarkEmailVerified flips email_verified for the user
func (r *UserRepo) MarkEmailVerified(userID uint) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"email_verified": true,
			"updated_at":     time.Now(),
		}).Error
}

// List returns users ordered by id with pagination and the total count
func (r *UserRepo) List(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	if err := r.db.Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Limit(limit).Offset(offset).Order("id").Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
