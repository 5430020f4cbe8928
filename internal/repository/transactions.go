package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/internal/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error)
}

type transactionRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewTransactionRepository(db *gorm.DB, logger zerolog.Logger) TransactionRepository {
	return &transactionRepository{db: db, logger: logger.With().Str("component", "repository.transactions").Logger()}
}

func (r *transactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		r.logger.Error().Err(err).Str("order_id", t.OrderID).Msg("failed to record transaction")
		return dbError(err, "transaction")
	}
	return nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, dbError(err, "transactions")
}
