package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/identity-api/internal/domain/entity"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	svc, err := NewJWTService("unit-test-secret", 1)
	require.NoError(t, err)

	user := &entity.User{ID: 42, Email: "a@x.com", IsAdmin: true}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTService_ParseRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-a", 1)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-b", 1)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(&entity.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTService_ParseRejectsGarbage(t *testing.T) {
	svc, err := NewJWTService("unit-test-secret", 1)
	require.NoError(t, err)

	_, err = svc.ParseToken("not.a.token")
	assert.Error(t, err)

	_, err = svc.ParseToken("")
	assert.Error(t, err)
}

func TestNewJWTService_Validation(t *testing.T) {
	_, err := NewJWTService("", 1)
	assert.Error(t, err)

	// Non-positive lifetime falls back to 24h
	svc, err := NewJWTService("s", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*60*60, svc.ExpiresIn())
}
