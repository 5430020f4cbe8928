// Package httpjson is a small JSON-over-HTTP helper for third-party REST APIs.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StatusError is returned for non-2xx responses; Body holds the raw reply.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status: %d", e.Status)
}

// SendJSON posts body as JSON to url with optional headers and decodes a 2xx
// reply into out (when out is non-nil). It returns the raw response body.
func SendJSON(ctx context.Context, client *http.Client, url string, body any, headers map[string]string, out any, logger zerolog.Logger) ([]byte, int, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		logger.Error().Str("req_id", reqID).Err(err).Msg("http.encode_error")
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		logger.Error().Str("req_id", reqID).Err(err).Msg("http.build_request_error")
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	// Default headers; allow caller overrides.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger.Info().
		Str("req_id", reqID).
		Str("url", url).
		Int("content_length", len(bs)).
		Msg("http.request")

	resp, err := client.Do(req)
	if err != nil {
		logger.Error().Str("req_id", reqID).Err(err).Int64("elapsed_ms", time.Since(start).Milliseconds()).Msg("http.send_error")
		return nil, 0, err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn().Str("req_id", reqID).Err(err).Msg("http.response_body_close_error")
		}
	}(resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	logger.Info().
		Str("req_id", reqID).
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("http.response")

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, &StatusError{Status: resp.StatusCode, Body: raw}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, resp.StatusCode, fmt.Errorf("decode json: %w", err)
		}
	}
	return raw, resp.StatusCode, nil
}
