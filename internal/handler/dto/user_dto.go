package dto

import (
	"time"

	"github.com/yourusername/identity-api/internal/domain/entity"
)

// UserDTO is the API representation of a user
type UserDTO struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewUserDTO(user *entity.User) *UserDTO {
	return &UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		IsAdmin:       user.IsAdmin,
		CreatedAt:     user.CreatedAt,
	}
}

// PaginatedUsersResponse is the admin user listing page
type PaginatedUsersResponse struct {
	Users   []*UserDTO `json:"users"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
}
