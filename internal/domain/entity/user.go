package entity

import "time"

// User is a durable identity keyed by email. Accounts are created either
// out-of-band or lazily the first time a login code for an unseen email is
// successfully authenticated.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"size:320;not null;uniqueIndex" json:"email"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	IsAdmin       bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName defines the table name for GORM
func (User) TableName() string {
	return "users"
}
