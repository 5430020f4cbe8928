package constants

// OCRStatus is the pipeline status stored on a bill.
type OCRStatus string

// Stable values (store these exact strings in DB).
const (
	OCRStatusPending   OCRStatus = "pending"
	OCRStatusCompleted OCRStatus = "completed" // pipeline ran, quality is in confidence_score
	OCRStatusFailed    OCRStatus = "failed"
)
