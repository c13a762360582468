package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/yourusername/identity-api/internal/domain/entity"
	"github.com/yourusername/identity-api/internal/domain/repository"
	apperrors "github.com/yourusername/identity-api/internal/pkg/errors"
)

const loginCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// LoginCodeService owns the one-time login code lifecycle: issuance, keyed
// hashing, expiry enforcement, single-use consumption and identity resolution
// on successful authentication.
type LoginCodeService struct {
	loginCodeRepo repository.LoginCodeRepository
	userRepo      repository.UserRepository
	emailService  EmailService
	codeTTL       time.Duration
	codeLength    int
	secret        string
	now           func() time.Time
}

func NewLoginCodeService(
	loginCodeRepo repository.LoginCodeRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
	codeTTL time.Duration,
	codeLength int,
	secret string,
) (*LoginCodeService, error) {
	if loginCodeRepo == nil {
		return nil, fmt.Errorf("login code repository is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("email service is required")
	}
	if secret == "" {
		return nil, fmt.Errorf("secret is required")
	}
	if codeTTL <= 0 {
		codeTTL = 30 * time.Minute
	}
	if codeLength <= 0 {
		codeLength = 6
	}

	return &LoginCodeService{
		loginCodeRepo: loginCodeRepo,
		userRepo:      userRepo,
		emailService:  emailService,
		codeTTL:       codeTTL,
		codeLength:    codeLength,
		secret:        secret,
		now:           time.Now,
	}, nil
}

// SetClock overrides the time source. Tests use it to move past code expiry.
func (s *LoginCodeService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Request issues a new login code for email and returns the persisted record
// together with the plaintext code. Only the keyed hash is stored. An existing
// user is linked when one matches the email; none is created here. Multiple
// outstanding codes per email are allowed.
func (s *LoginCodeService) Request(ctx context.Context, email string) (*entity.LoginCode, string, error) {
	var userID *uint
	user, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}
	if user != nil {
		userID = &user.ID
	}

	code, err := generateLoginCode(s.codeLength)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate login code: %w", err)
	}

	record := &entity.LoginCode{
		CodeHash:  hashLoginCode(code, s.secret),
		Email:     email,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.codeTTL),
	}
	if err := s.loginCodeRepo.Create(record); err != nil {
		return nil, "", fmt.Errorf("failed to create login code: %w", err)
	}

	return record, code, nil
}

// Send delivers the plaintext code to the address the record was issued for.
// Delivery is best-effort; callers only get the transport error back.
func (s *LoginCodeService) Send(ctx context.Context, record *entity.LoginCode, code string) error {
	idempotencyKey := fmt.Sprintf("login-code:%d", record.ID)
	return s.emailService.SendLoginCode(ctx, record.Email, code, idempotencyKey)
}

// Authenticate verifies a submitted (code, email) pair, consumes the matching
// record and resolves the user, creating one on first login. isSignup is true
// when a user was created or when a pre-existing user became verified through
// this call. Both inputs are attacker-controlled.
func (s *LoginCodeService) Authenticate(ctx context.Context, code, email string) (*entity.User, bool, error) {
	if strings.TrimSpace(code) == "" {
		return nil, false, ErrInvalidOrExpiredCode
	}

	codeHash := hashLoginCode(code, s.secret)

	record, err := s.loginCodeRepo.GetActive(codeHash, email, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, ErrInvalidOrExpiredCode
		}
		return nil, false, err
	}

	// Consume before touching the user so that of two concurrent calls with
	// the same code only the one that removed the row proceeds.
	consumed, err := s.loginCodeRepo.ConsumeByID(record.ID)
	if err != nil {
		return nil, false, err
	}
	if !consumed {
		return nil, false, ErrInvalidOrExpiredCode
	}

	isSignup := false
	var user *entity.User
	if record.UserID != nil {
		user, err = s.userRepo.GetByID(*record.UserID)
		if err != nil {
			return nil, false, err
		}
	} else {
		user, isSignup, err = s.userRepo.GetByEmailOrCreate(record.Email)
		if err != nil {
			return nil, false, err
		}
	}

	if !user.EmailVerified {
		isSignup = true
		if err := s.userRepo.MarkEmailVerified(user.ID); err != nil {
			return nil, false, fmt.Errorf("failed to mark user email verified: %w", err)
		}
		user.EmailVerified = true
	}

	return user, isSignup, nil
}

// generateLoginCode draws length characters uniformly from A-Z0-9 using a
// cryptographically secure source.
func generateLoginCode(length int) (string, error) {
	max := big.NewInt(int64(len(loginCodeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = loginCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// hashLoginCode derives the stored digest as HMAC-SHA256 of the plaintext code
// keyed with the server secret. Deterministic on purpose: the digest is the
// lookup key at verification time.
func hashLoginCode(code, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}
