package entity

import "time"

// VerificationCode is the single live login code for a phone number.
// Issuing a new code overwrites the previous one.
type VerificationCode struct {
	Phone string `gorm:"primaryKey;size:20"`
	// CodeHash is the bcrypt hash of the 6-digit code; the plain code is never stored.
	CodeHash  string    `gorm:"size:100;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// IsExpired reports whether the code is past its expiry at now.
func (v *VerificationCode) IsExpired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
