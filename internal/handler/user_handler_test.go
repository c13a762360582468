package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/identity-api/internal/domain/entity"
	apperrors "github.com/yourusername/identity-api/internal/pkg/errors"
	"github.com/yourusername/identity-api/internal/service"
)

func TestUserHandler_Me(t *testing.T) {
	userRepo := new(mockUserRepo)
	handler := NewUserHandler(service.NewUserService(userRepo))

	userRepo.On("GetByID", uint(7)).Return(&entity.User{ID: 7, Email: "a@x.com", EmailVerified: true}, nil)

	c, w := newTestGinContext("GET", "/v1/users/me", nil)
	c.Set("user_id", uint(7))
	handler.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "a@x.com", resp["email"])
	assert.Equal(t, true, resp["email_verified"])
}

func TestUserHandler_Me_Unauthenticated(t *testing.T) {
	handler := NewUserHandler(service.NewUserService(new(mockUserRepo)))

	c, w := newTestGinContext("GET", "/v1/users/me", nil)
	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_Me_UserGone(t *testing.T) {
	userRepo := new(mockUserRepo)
	handler := NewUserHandler(service.NewUserService(userRepo))

	userRepo.On("GetByID", uint(9)).Return(nil, apperrors.ErrNotFound)

	c, w := newTestGinContext("GET", "/v1/users/me", nil)
	c.Set("user_id", uint(9))
	handler.Me(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_ListUsers(t *testing.T) {
	userRepo := new(mockUserRepo)
	handler := NewUserHandler(service.NewUserService(userRepo))

	users := []entity.User{
		{ID: 1, Email: "a@x.com"},
		{ID: 2, Email: "b@x.com"},
	}
	userRepo.On("List", 10, 0).Return(users, int64(2), nil)

	c, w := newTestGinContext("GET", "/v1/users", nil)
	handler.ListUsers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, float64(2), resp["total"])

	list, ok := resp["users"].([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 2)
}
