package entity

import "time"

// LoginCode stores the keyed hash of a single-use login code. The plaintext
// code is never persisted. UserID is nil when the email had no account at
// issuance time; successful authentication deletes the row.
type LoginCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CodeHash  string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Email     string    `gorm:"size:320;not null;index" json:"email"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LoginCode) TableName() string {
	return "login_codes"
}

func (c *LoginCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
