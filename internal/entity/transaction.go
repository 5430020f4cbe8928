package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/billbook/constants"
)

// Transaction records a payment-gateway order created for a plan upgrade.
type Transaction struct {
	ID        uuid.UUID               `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID               `json:"user_id" gorm:"type:uuid;index;not null"`
	OrderID   string                  `json:"order_id" gorm:"uniqueIndex;not null"`
	Plan      constants.Plan          `json:"plan" gorm:"not null"`
	Period    constants.BillingPeriod `json:"period" gorm:"not null"`
	Amount    int64                   `json:"amount"`
	Currency  string                  `json:"currency"`
	Status    string                  `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
}
