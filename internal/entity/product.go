package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	HSNCode      *string   `json:"hsn_code"`
	Unit         string    `json:"unit" gorm:"not null;default:pcs"`
	DefaultPrice float64   `json:"default_price" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}
