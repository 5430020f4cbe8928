package openai

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	goopenai "github.com/sashabaranov/go-openai"
)

// Config for the OpenAI-compatible vision provider.
type Config struct {
	APIKey      string
	BaseURL     string // empty = https://api.openai.com/v1; set for compatible gateways
	Model       string
	Temperature float32
	Timeout     time.Duration // http client timeout, on top of the caller's context
	MaxTokens   int
}

type Provider struct {
	cfg    Config
	client *goopenai.Client
	logger zerolog.Logger
}

func NewProvider(cfg Config, logger zerolog.Logger) *Provider {
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}

	occ := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		occ.BaseURL = cfg.BaseURL
	}
	occ.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Provider{
		cfg:    cfg,
		client: goopenai.NewClientWithConfig(occ),
		logger: logger.With().Str("component", "llm.openai").Logger(),
	}
}
