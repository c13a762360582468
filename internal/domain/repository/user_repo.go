package repository

import (
	"github.com/yourusername/identity-api/internal/domain/entity"
)

// UserRepository defines persistence operations for users. Email matching is
// case-insensitive everywhere; uniqueness of the normalized email is enforced
// by the storage layer.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// GetByEmailOrCreate returns the user for email, creating an unverified
	// one if none exists. The second return value reports whether a new row
	// was inserted. Safe against concurrent creation for the same email.
	GetByEmailOrCreate(email string) (*entity.User, bool, error)
	MarkEmailVerified(userID uint) error
	// List returns users ordered by id with pagination plus the total count.
	List(limit, offset int) ([]entity.User, int64, error)
}
