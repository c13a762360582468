package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/identity-api/internal/domain/entity"
	apperrors "github.com/yourusername/identity-api/internal/pkg/errors"
)

// LoginCodeRepo implements repository.LoginCodeRepository
type LoginCodeRepo struct {
	db *gorm.DB
}

func NewLoginCodeRepo(db *gorm.DB) *LoginCodeRepo {
	return &LoginCodeRepo{db: db}
}

func (r *LoginCodeRepo) Create(code *entity.LoginCode) error {
	return r.db.Create(code).Error
}

// GetActive returns the unexpired code matching hash AND email. All predicates
// are applied in the query so a code issued for a different email never
// matches.
func (r *LoginCodeRepo) GetActive(codeHash, email string, now time.Time) (*entity.LoginCode, error) {
	var code entity.LoginCode
	err := r.db.
		Where("code_hash = ? AND email = ? AND expires_at > ?", codeHash, email, now).
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active login code: %w", err)
	}
	return &code, nil
}

// ConsumeByID deletes the code row. RowsAffected == 0 means another call
// already consumed it; the caller must treat that as an invalid code.
func (r *LoginCodeRepo) ConsumeByID(id uint) (bool, error) {
	result := r.db.Where("id = ?", id).Delete(&entity.LoginCode{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume login code #%d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteExpired reaps codes past their expiry. The service itself never calls
// this; see cmd/reap-codes.
func (r *LoginCodeRepo) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&entity.LoginCode{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
