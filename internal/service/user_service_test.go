package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/identity-api/internal/domain/entity"
	apperrors "github.com/yourusername/identity-api/internal/pkg/errors"
)

func TestUserService_GetByEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	existing := &entity.User{ID: 1, Email: "a@x.com"}
	userRepo.On("GetByEmail", "a@x.com").Return(existing, nil)
	userRepo.On("GetByEmail", "missing@x.com").Return(nil, apperrors.ErrNotFound)

	user, err := svc.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	_, err = svc.GetByEmail("missing@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_GetByEmailOrCreate(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	created := &entity.User{ID: 2, Email: "new@x.com", EmailVerified: false}
	userRepo.On("GetByEmailOrCreate", "new@x.com").Return(created, true, nil)

	user, wasCreated, err := svc.GetByEmailOrCreate("new@x.com")
	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.False(t, user.EmailVerified, "a lazily created user starts unverified")
	assert.False(t, user.IsAdmin)
}

func TestUserService_List_PaginationClamping(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLimit  int
		wantOffset int
		wantPage   int
	}{
		{name: "defaults", page: 0, pageSize: 0, wantLimit: 10, wantOffset: 0, wantPage: 1},
		{name: "negative page", page: -5, pageSize: 10, wantLimit: 10, wantOffset: 0, wantPage: 1},
		{name: "page size capped at 100", page: 1, pageSize: 500, wantLimit: 100, wantOffset: 0, wantPage: 1},
		{name: "offset from page", page: 3, pageSize: 20, wantLimit: 20, wantOffset: 40, wantPage: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			svc := NewUserService(userRepo)

			userRepo.On("List", tt.wantLimit, tt.wantOffset).Return([]entity.User{}, int64(0), nil)

			resp, err := svc.List(tt.page, tt.pageSize)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, resp.Page)
			assert.Equal(t, tt.wantLimit, resp.PerPage)
			userRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_List_MapsToDTO(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	users := []entity.User{
		{ID: 1, Email: "a@x.com", EmailVerified: true, IsAdmin: true, CreatedAt: createdAt},
		{ID: 2, Email: "b@x.com", EmailVerified: false, IsAdmin: false, CreatedAt: createdAt},
	}
	userRepo.On("List", 10, 0).Return(users, int64(2), nil)

	resp, err := svc.List(1, 10)
	require.NoError(t, err)

	require.Len(t, resp.Users, 2)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, "a@x.com", resp.Users[0].Email)
	assert.True(t, resp.Users[0].IsAdmin)
	assert.Equal(t, "b@x.com", resp.Users[1].Email)
	assert.False(t, resp.Users[1].EmailVerified)
}

func TestUserService_List_RepoErrorPropagates(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), assert.AnError)

	_, err := svc.List(1, 10)
	assert.ErrorIs(t, err, assert.AnError)
}
