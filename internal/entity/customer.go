package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a buyer known to a user. Name is unique within the user's set.
type Customer struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_customers_user_name,priority:1"`
	Name           string    `json:"name" gorm:"not null;uniqueIndex:idx_customers_user_name,priority:2"`
	GSTIN          *string   `json:"gstin" gorm:"column:gstin"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Address        *string   `json:"address"`
	TotalPurchases float64   `json:"total_purchases" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
}
