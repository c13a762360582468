package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/identity-api/internal/domain/entity"
	"github.com/yourusername/identity-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthTestRouter(t *testing.T, jwtService *auth.JWTService) *gin.Engine {
	t.Helper()
	m := NewAuthMiddleware(jwtService)

	router := gin.New()
	router.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/admin", m.RequireAuth(), m.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	jwtService, err := auth.NewJWTService("middleware-test-secret", 1)
	require.NoError(t, err)
	router := newAuthTestRouter(t, jwtService)

	token, err := jwtService.GenerateToken(&entity.User{ID: 7, Email: "a@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	jwtService, err := auth.NewJWTService("middleware-test-secret", 1)
	require.NoError(t, err)
	router := newAuthTestRouter(t, jwtService)

	adminToken, err := jwtService.GenerateToken(&entity.User{ID: 1, Email: "admin@x.com", IsAdmin: true})
	require.NoError(t, err)
	userToken, err := jwtService.GenerateToken(&entity.User{ID: 2, Email: "user@x.com", IsAdmin: false})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
