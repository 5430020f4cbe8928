package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/billbook/constants"
)

// Bill is an uploaded purchase/sales document and what was extracted from it.
type Bill struct {
	ID            uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID              `json:"user_id" gorm:"type:uuid;index:idx_bills_user_upload,priority:1;not null"`
	FileName      string                 `json:"file_name"`
	FileType      constants.DocumentKind `json:"file_type" gorm:"not null"`
	StorageRef    string                 `json:"file_path" gorm:"not null"`
	ContentType   string                 `json:"content_type"`
	UploadDate    time.Time              `json:"upload_date" gorm:"index:idx_bills_user_upload,priority:2;not null"`
	OCRStatus     constants.OCRStatus    `json:"ocr_status" gorm:"column:ocr_status;not null"`
	ExtractedData *ExtractedData         `json:"extracted_data" gorm:"serializer:json"`
}

// ExtractedData is the structured content of a tax invoice. Nil pointers mean
// "unknown", which is distinct from an extracted zero.
type ExtractedData struct {
	SellerName      *string    `json:"seller_name"`
	SellerGSTIN     *string    `json:"seller_gstin"`
	BuyerName       *string    `json:"buyer_name"`
	BuyerGSTIN      *string    `json:"buyer_gstin"`
	InvoiceNumber   *string    `json:"invoice_number"`
	InvoiceDate     *string    `json:"invoice_date"`
	Products        []LineItem `json:"products"`
	Subtotal        *float64   `json:"subtotal"`
	CGST            *float64   `json:"cgst"`
	SGST            *float64   `json:"sgst"`
	IGST            *float64   `json:"igst"`
	TotalGST        *float64   `json:"total_gst"`
	TotalAmount     *float64   `json:"total_amount"`
	ConfidenceScore float64    `json:"confidence_score"`
}

// LineItem is one extracted product row; every field may be unknown.
type LineItem struct {
	Name     *string  `json:"name"`
	HSNCode  *string  `json:"hsn_code"`
	Quantity *float64 `json:"quantity"`
	Rate     *float64 `json:"rate"`
	Amount   *float64 `json:"amount"`
}

// UnknownExtractedData is the degraded result: every field unknown, confidence 0.
func UnknownExtractedData() *ExtractedData {
	return &ExtractedData{Products: []LineItem{}}
}

// Float returns the value behind p, treating unknown as 0.
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// String returns the value behind p, or def when unknown or blank.
func String(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
