package entity

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is an outbound tax invoice. Immutable once issued.
type Invoice struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID     `json:"user_id" gorm:"type:uuid;index;not null"`
	InvoiceNumber   string        `json:"invoice_number" gorm:"uniqueIndex;not null"`
	InvoiceDate     time.Time     `json:"invoice_date" gorm:"not null"`
	CustomerID      *uuid.UUID    `json:"customer_id" gorm:"type:uuid"`
	CustomerName    string        `json:"customer_name" gorm:"not null"`
	CustomerGSTIN   *string       `json:"customer_gstin" gorm:"column:customer_gstin"`
	CustomerAddress *string       `json:"customer_address"`
	Items           []InvoiceItem `json:"items" gorm:"serializer:json"`
	Subtotal        float64       `json:"subtotal"`
	CGST            float64       `json:"cgst"`
	SGST            float64       `json:"sgst"`
	IGST            float64       `json:"igst"`
	TotalGST        float64       `json:"total_gst"`
	TotalAmount     float64       `json:"total_amount"`
	Notes           *string       `json:"notes"`
	CreatedAt       time.Time     `json:"created_at"`
}

// InvoiceItem is a caller-supplied line; Amount is authoritative, not Quantity*Rate.
type InvoiceItem struct {
	ProductName string  `json:"product_name"`
	HSNCode     *string `json:"hsn_code"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}
