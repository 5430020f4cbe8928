package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/httpjson"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

const statusCreated = "created"

// OrderResponse is what the client needs to open the checkout.
type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type Service struct {
	gateway      Gateway
	transactions repository.TransactionRepository
	keyID        string
	logger       zerolog.Logger
}

func NewService(gateway Gateway, transactions repository.TransactionRepository, keyID string, logger zerolog.Logger) *Service {
	return &Service{
		gateway:      gateway,
		transactions: transactions,
		keyID:        keyID,
		logger:       logger.With().Str("component", "payments").Logger(),
	}
}

// Price returns the amount in paise for a paid plan and period.
func Price(plan constants.Plan, period constants.BillingPeriod) (int64, error) {
	periods, ok := constants.PlanPricesPaise[plan]
	if !ok {
		return 0, common.ValidationFailedf("unknown plan %q", plan)
	}
	amount, ok := periods[period]
	if !ok {
		return 0, common.ValidationFailedf("unknown billing period %q", period)
	}
	return amount, nil
}

// CreateOrder opens a gateway order for an upgrade and records it as a transaction.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, plan constants.Plan, period constants.BillingPeriod) (*OrderResponse, error) {
	amount, err := Price(plan, period)
	if err != nil {
		return nil, err
	}

	receipt := fmt.Sprintf("rcpt_%s", uuid.NewString()[:18])
	order, err := s.gateway.CreateOrder(ctx, amount, constants.CurrencyINR, receipt, map[string]string{
		"user_id": userID.String(),
		"plan":    string(plan),
		"period":  string(period),
	})
	if err != nil {
		ev := s.logger.Error().Err(err).Str("user_id", userID.String())
		var se *httpjson.StatusError
		if errors.As(err, &se) {
			ev = ev.Int("status", se.Status).Str("body", string(se.Body))
		}
		ev.Msg("payments.order.failed")
		return nil, common.NewAppError("UPSTREAM_UNAVAILABLE", "Payment gateway unavailable", errors.Join(common.ErrUpstreamUnavailable, err))
	}

	tx := &entity.Transaction{
		UserID:   userID,
		OrderID:  order.ID,
		Plan:     plan,
		Period:   period,
		Amount:   amount,
		Currency: constants.CurrencyINR,
		Status:   statusCreated,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("order_id", order.ID).
		Str("plan", string(plan)).
		Int64("amount", amount).
		Msg("payments.order.created")
	return &OrderResponse{OrderID: order.ID, Amount: amount, Currency: constants.CurrencyINR, KeyID: s.keyID}, nil
}
