package service

import "errors"

// Auth flow specific errors used by handlers for stable error_type mapping.
var (
	// ErrInvalidOrExpiredCode covers "wrong code", "expired code" and "wrong
	// email" alike. The predicates are deliberately not distinguished so the
	// response never leaks which one failed.
	ErrInvalidOrExpiredCode = errors.New("invalid_or_expired_code")
)
