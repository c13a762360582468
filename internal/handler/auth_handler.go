package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/identity-api/internal/service"
	"github.com/yourusername/identity-api/pkg/auth"
)

// AuthHandler serves the passwordless login code flow
type AuthHandler struct {
	loginCodeService *service.LoginCodeService
	jwtService       *auth.JWTService
}

func NewAuthHandler(loginCodeService *service.LoginCodeService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		loginCodeService: loginCodeService,
		jwtService:       jwtService,
	}
}

// LoginCodeRequest is the body of POST /v1/login-code/request
type LoginCodeRequest struct {
	Email string `json:"email" binding:"required,email,max=320"`
}

// AuthenticateRequest is the body of POST /v1/login-code/authenticate
type AuthenticateRequest struct {
	Email string `json:"email" binding:"required,email,max=320"`
	Code  string `json:"code" binding:"required"`
}

// RequestLoginCode issues a single-use code and emails it to the address.
// Always responds 204 on issuance; delivery is best-effort.
func (h *AuthHandler) RequestLoginCode(c *gin.Context) {
	var req LoginCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "error_type": "validation"})
		return
	}

	record, code, err := h.loginCodeService.Request(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("[AuthHandler] Failed to issue login code for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal"})
		return
	}

	if err := h.loginCodeService.Send(c.Request.Context(), record, code); err != nil {
		// The code is already issued and valid; delivery failures are the
		// email provider's concern, not the caller's.
		log.Printf("[AuthHandler] Failed to send login code #%d to %s: %v", record.ID, record.Email, err)
	}

	c.Status(http.StatusNoContent)
}

// AuthenticateLoginCode exchanges a (code, email) pair for the resolved user
// and an access token.
func (h *AuthHandler) AuthenticateLoginCode(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "error_type": "validation"})
		return
	}

	user, isSignup, err := h.loginCodeService.Authenticate(c.Request.Context(), req.Code, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredCode) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "This login code is invalid or has expired.",
				"error_type": "invalid_or_expired_code",
			})
			return
		}
		log.Printf("[AuthHandler] Authenticate failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal"})
		return
	}

	accessToken, err := h.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Failed to generate token for user ID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"accessToken": accessToken,
		"tokenType":   "Bearer",
		"expiresIn":   h.jwtService.ExpiresIn(),
		"isSignup":    isSignup,
	})
}
