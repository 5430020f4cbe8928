package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/joseph-ayodele/billbook/internal/llm"
)

// Complete implements llm.Provider with one chat completion carrying the
// document as an inline data URL. PDFs are sent the same way; the configured
// model or gateway must accept application/pdf data URLs.
func (p *Provider) Complete(ctx context.Context, req llm.VisionRequest) (string, error) {
	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{Type: goopenai.ChatMessagePartTypeText, Text: req.Prompt},
					{
						Type: goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{
							URL:    req.Document.DataURL(),
							Detail: goopenai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			p.logger.Error().
				Int("status", apiErr.HTTPStatusCode).
				Str("type", apiErr.Type).
				Str("message", apiErr.Message).
				Int64("elapsed_ms", time.Since(start).Milliseconds()).
				Msg("llm.openai.api_error")
		} else {
			p.logger.Error().Err(err).Int64("elapsed_ms", time.Since(start).Milliseconds()).Msg("llm.openai.http_error")
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	p.logger.Info().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("llm.openai.response")
	return resp.Choices[0].Message.Content, nil
}
