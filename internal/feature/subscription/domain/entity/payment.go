package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is an append-only record of a completed checkout.
type Payment struct {
	ID                string    `gorm:"primaryKey;size:36"`
	UserID            string    `gorm:"size:36;not null;index"`
	ExternalPaymentID string    `gorm:"size:255;not null;uniqueIndex"`
	Amount            int64     `gorm:"not null"` // minor currency units
	Currency          string    `gorm:"size:8"`
	Status            string    `gorm:"size:32;not null"`
	Plan              Plan      `gorm:"size:16;not null"`
	CreatedAt         time.Time
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PaymentStatusCompleted is the status recorded for a completed checkout.
const PaymentStatusCompleted = "completed"
