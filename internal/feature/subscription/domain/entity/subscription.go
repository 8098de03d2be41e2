// Package entity defines the domain entities for the subscription feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan is a billing plan.
type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// IsValid reports whether p is a known plan.
func (p Plan) IsValid() bool {
	return p == PlanMonthly || p == PlanYearly
}

// Status is a subscription's billing state.
type Status string

const (
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
	StatusInactive Status = "inactive"
)

// Subscription is a user's single billing record. It is only ever written in
// response to gateway webhooks or an explicit cancel request.
type Subscription struct {
	ID                     string     `gorm:"primaryKey;size:36" json:"id"`
	UserID                 string     `gorm:"size:36;not null;uniqueIndex" json:"userId"`
	Plan                   Plan       `gorm:"size:16;not null" json:"plan"`
	Status                 Status     `gorm:"size:16;not null;index" json:"status"`
	ExternalSubscriptionID string     `gorm:"size:255;index" json:"-"`
	CurrentPeriodStart     *time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd       *time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd      bool       `gorm:"not null;default:false" json:"cancelAtPeriodEnd"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the subscription currently grants paid features.
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == StatusActive
}
