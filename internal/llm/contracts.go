package llm

import (
	"context"

	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/normalize"
)

// VisionRequest is one instruction plus one encoded document.
type VisionRequest struct {
	System   string
	Prompt   string
	Document normalize.Payload
}

// Provider is the external vision-language model. It returns the model's raw
// text, which is expected (not guaranteed) to contain JSON.
type Provider interface {
	Complete(ctx context.Context, req VisionRequest) (string, error)
}

// OutcomeStatus tags an extraction result.
type OutcomeStatus string

const (
	Succeeded OutcomeStatus = "succeeded"
	Degraded  OutcomeStatus = "degraded"
)

// Degrade reasons.
const (
	ReasonProvider      = "provider_error"
	ReasonTimeout       = "timeout"
	ReasonEmpty         = "empty_response"
	ReasonInvalidJSON   = "invalid_json"
	ReasonSchemaInvalid = "schema_mismatch"
)

// Outcome is the tagged result of one extraction attempt. Data is never nil:
// a degraded outcome carries all-unknown fields and confidence 0.
type Outcome struct {
	Status OutcomeStatus
	Data   *entity.ExtractedData
	Reason string
}

func (o Outcome) IsDegraded() bool { return o.Status == Degraded }

// Extractor is what the ingestion pipeline depends on.
type Extractor interface {
	Extract(ctx context.Context, doc normalize.Payload) Outcome
}
