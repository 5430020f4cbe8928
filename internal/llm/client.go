package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/normalize"
)

const DefaultTimeout = 60 * time.Second

// Client turns a normalized document into ExtractedData with one provider call.
// It never returns an error: every failure becomes a Degraded outcome.
type Client struct {
	provider Provider
	timeout  time.Duration
	schema   *jsonschema.Schema
	logger   zerolog.Logger
}

func NewClient(provider Provider, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	schema, err := CompileSchema(BuildBillJSONSchema())
	if err != nil {
		return nil, err
	}
	return &Client{
		provider: provider,
		timeout:  timeout,
		schema:   schema,
		logger:   logger.With().Str("component", "llm.extract").Logger(),
	}, nil
}

// Extract makes a single best-effort attempt. No retries.
func (c *Client) Extract(ctx context.Context, doc normalize.Payload) Outcome {
	rid := uuid.NewString()
	start := time.Now()
	log := c.logger.With().Str("req_id", rid).Str("request_id", common.RequestIDFromContext(ctx)).Logger()

	log.Info().
		Str("kind", string(doc.Kind)).
		Str("mime", doc.MIMEType).
		Int("payload_len", len(doc.Base64)).
		Msg("llm.extract.start")

	callCtx, cancel := common.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.provider.Complete(callCtx, VisionRequest{
		System:   SystemInstruction(),
		Prompt:   UserPrompt(doc.Kind),
		Document: doc,
	})
	elapsed := func() int64 { return time.Since(start).Milliseconds() }

	if err != nil {
		reason := ReasonProvider
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return c.degrade(log, reason, err, elapsed())
	}

	content := StripCodeFence(reply)
	if content == "" {
		return c.degrade(log, ReasonEmpty, nil, elapsed())
	}

	cleaned, _, err := NormalizeAndSanitizeJSON([]byte(content), log)
	if err != nil {
		log.Debug().Str("content", truncate(content, 500)).Msg("llm.extract.raw_reply")
		return c.degrade(log, ReasonInvalidJSON, err, elapsed())
	}
	if err := ValidateJSON(c.schema, cleaned); err != nil {
		return c.degrade(log, ReasonSchemaInvalid, err, elapsed())
	}

	var data entity.ExtractedData
	if err := json.Unmarshal(cleaned, &data); err != nil {
		return c.degrade(log, ReasonInvalidJSON, err, elapsed())
	}
	if data.Products == nil {
		data.Products = []entity.LineItem{}
	}

	log.Info().
		Str("buyer", entity.String(data.BuyerName, "")).
		Str("invoice_number", entity.String(data.InvoiceNumber, "")).
		Float64("total_amount", entity.Float(data.TotalAmount)).
		Int("products", len(data.Products)).
		Float64("confidence", data.ConfidenceScore).
		Int64("elapsed_ms", elapsed()).
		Msg("llm.extract.ok")
	return Outcome{Status: Succeeded, Data: &data}
}

func (c *Client) degrade(log zerolog.Logger, reason string, err error, elapsedMS int64) Outcome {
	log.Warn().
		Err(err).
		Str("reason", reason).
		Int64("elapsed_ms", elapsedMS).
		Msg("llm.extract.degraded")
	return Outcome{Status: Degraded, Data: entity.UnknownExtractedData(), Reason: reason}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
