package service

import (
	"log"

	"github.com/yourusername/identity-api/internal/domain/entity"
	"github.com/yourusername/identity-api/internal/domain/repository"
	"github.com/yourusername/identity-api/internal/handler/dto"
)

// UserService exposes user identity operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetByID returns a user by ID
func (s *UserService) GetByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// GetByEmail returns the user matching the normalized email, or
// apperrors.ErrNotFound.
func (s *UserService) GetByEmail(email string) (*entity.User, error) {
	return s.userRepo.GetByEmail(email)
}

// GetByEmailOrCreate resolves the user for email, creating an unverified
// account when none exists. The created flag reports a fresh insert.
func (s *UserService) GetByEmailOrCreate(email string) (*entity.User, bool, error) {
	return s.userRepo.GetByEmailOrCreate(email)
}

// List returns a paginated list of users for the admin panel.
func (s *UserService) List(page, pageSize int) (*dto.PaginatedUsersResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize

	users, total, err := s.userRepo.List(pageSize, offset)
	if err != nil {
		log.Printf("[UserService] Failed to list users: %v", err)
		return nil, err
	}

	userDTOs := make([]*dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.NewUserDTO(&user)
	}

	return &dto.PaginatedUsersResponse{
		Users:   userDTOs,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}, nil
}
