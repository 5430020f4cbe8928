// Package payments creates gateway orders for plan upgrades.
package payments

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/internal/httpjson"
)

// Order is the gateway's view of a created order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway creates payment orders.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error)
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// Razorpay talks to the Razorpay Orders API with basic auth.
type Razorpay struct {
	cfg    RazorpayConfig
	client *http.Client
	logger zerolog.Logger
}

var errNotConfigured = errors.New("razorpay credentials are not configured")

func NewRazorpay(cfg RazorpayConfig, logger zerolog.Logger) *Razorpay {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Razorpay{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "payments.razorpay").Logger(),
	}
}

func (r *Razorpay) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	if r.cfg.KeyID == "" || r.cfg.KeySecret == "" {
		return nil, errNotConfigured
	}
	body := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	auth := base64.StdEncoding.EncodeToString([]byte(r.cfg.KeyID + ":" + r.cfg.KeySecret))
	headers := map[string]string{"Authorization": "Basic " + auth}

	var out Order
	url := strings.TrimRight(r.cfg.BaseURL, "/") + "/orders"
	if _, _, err := httpjson.SendJSON(ctx, r.client, url, body, headers, &out, r.logger); err != nil {
		return nil, err
	}
	return &out, nil
}
