package repository

import (
	"time"

	"github.com/yourusername/identity-api/internal/domain/entity"
)

// LoginCodeRepository persists one-time login codes.
type LoginCodeRepository interface {
	Create(code *entity.LoginCode) error
	// GetActive returns the unexpired code matching both hash and email, or
	// apperrors.ErrNotFound.
	GetActive(codeHash, email string, now time.Time) (*entity.LoginCode, error)
	// ConsumeByID deletes the code and reports whether a row was actually
	// removed. A false result means a concurrent call consumed it first.
	ConsumeByID(id uint) (bool, error)
	// DeleteExpired removes codes whose expiry is in the past and returns the
	// number of rows deleted. Used by out-of-band housekeeping only.
	DeleteExpired(now time.Time) (int64, error)
}
