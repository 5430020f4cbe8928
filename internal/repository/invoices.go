package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/internal/entity"
)

type InvoiceRepository interface {
	// CreateNumbered bumps the owner's invoice sequence and inserts inv in one
	// transaction; number renders the invoice number from the new sequence value.
	CreateNumbered(ctx context.Context, inv *entity.Invoice, number func(seq int) string) error
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Invoice, error)
}

type invoiceRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewInvoiceRepository(db *gorm.DB, logger zerolog.Logger) InvoiceRepository {
	return &invoiceRepository{db: db, logger: logger.With().Str("component", "repository.invoices").Logger()}
}

func (r *invoiceRepository) CreateNumbered(ctx context.Context, inv *entity.Invoice, number func(seq int) string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.User{}).
			Where("id = ?", inv.UserID).
			UpdateColumn("invoice_seq", gorm.Expr("invoice_seq + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var seq int
		if err := tx.Model(&entity.User{}).Select("invoice_seq").Where("id = ?", inv.UserID).Scan(&seq).Error; err != nil {
			return err
		}
		inv.InvoiceNumber = number(seq)
		return tx.Create(inv).Error
	})
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", inv.UserID.String()).Msg("failed to create invoice")
		return dbError(err, "invoice")
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
		return nil, dbError(err, "invoice")
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Invoice, error) {
	page = page.normalized()
	var out []*entity.Invoice
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list invoices")
		return nil, dbError(err, "invoices")
	}
	return out, nil
}
