package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/billbook/constants"
)

// User is an account owner. Every other row is partitioned by user_id.
type User struct {
	ID               uuid.UUID      `json:"user_id" gorm:"type:uuid;primaryKey"`
	Email            string         `json:"email" gorm:"uniqueIndex;not null"`
	Name             string         `json:"name"`
	Picture          *string        `json:"picture,omitempty"`
	SubscriptionPlan constants.Plan `json:"subscription_plan" gorm:"not null;default:free"`
	BillCount        int            `json:"bill_count" gorm:"not null;default:0"`
	InvoiceSeq       int            `json:"-" gorm:"not null;default:0"`
	BusinessName     *string        `json:"business_name,omitempty"`
	GSTIN            *string        `json:"gstin,omitempty" gorm:"column:gstin"`
	Address          *string        `json:"address,omitempty"`
	Phone            *string        `json:"phone,omitempty"`
	LogoRef          *string        `json:"business_logo,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"-"`
}

// Session is an opaque server-side login token.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
