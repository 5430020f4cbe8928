package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Action     string    `json:"action" gorm:"not null"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id" gorm:"type:uuid"`
	Changes    string    `json:"changes"`
	CreatedAt  time.Time `json:"timestamp"`
}
