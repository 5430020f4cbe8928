package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/internal/entity"
)

// newestFirst orders by upload time; ids are time-ordered, so ties keep insertion order.
const newestFirst = "upload_date DESC, id ASC"

type BillRepository interface {
	Create(ctx context.Context, b *entity.Bill) error
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Bill, error)
	List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Bill, error)
	ListExtracted(ctx context.Context, userID uuid.UUID) ([]*entity.Bill, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	ReplaceExtractedData(ctx context.Context, userID, id uuid.UUID, data *entity.ExtractedData) (*entity.Bill, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*entity.Bill, error)
}

type billRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewBillRepository(db *gorm.DB, logger zerolog.Logger) BillRepository {
	return &billRepository{db: db, logger: logger.With().Str("component", "repository.bills").Logger()}
}

func (r *billRepository) Create(ctx context.Context, b *entity.Bill) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		r.logger.Error().Err(err).Str("user_id", b.UserID.String()).Str("file_name", b.FileName).Msg("failed to create bill")
		return dbError(err, "bill")
	}
	return nil
}

func (r *billRepository) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Bill, error) {
	var b entity.Bill
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&b).Error
	if err != nil {
		return nil, dbError(err, "bill")
	}
	return &b, nil
}

func (r *billRepository) List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Bill, error) {
	page = page.normalized()
	var out []*entity.Bill
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Offset(page.Skip).Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list bills")
		return nil, dbError(err, "bills")
	}
	return out, nil
}

// ListExtracted returns every bill of the user that carries extracted data, newest first.
func (r *billRepository) ListExtracted(ctx context.Context, userID uuid.UUID) ([]*entity.Bill, error) {
	var out []*entity.Bill
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND extracted_data IS NOT NULL", userID).
		Order(newestFirst).
		Find(&out).Error
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list extracted bills")
		return nil, dbError(err, "bills")
	}
	return out, nil
}

func (r *billRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).Where("user_id = ?", userID).Count(&n).Error
	return n, dbError(err, "bills")
}

// ReplaceExtractedData overwrites the whole payload; it never merges.
func (r *billRepository) ReplaceExtractedData(ctx context.Context, userID, id uuid.UUID, data *entity.ExtractedData) (*entity.Bill, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Bill{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("extracted_data").
		Updates(&entity.Bill{ExtractedData: data})
	if res.Error != nil {
		r.logger.Error().Err(res.Error).Str("bill_id", id.String()).Msg("failed to replace extracted data")
		return nil, dbError(res.Error, "bill")
	}
	if res.RowsAffected == 0 {
		return nil, dbError(gorm.ErrRecordNotFound, "bill")
	}
	return r.Get(ctx, userID, id)
}

// Delete removes the row and returns it so the caller can drop the stored original.
func (r *billRepository) Delete(ctx context.Context, userID, id uuid.UUID) (*entity.Bill, error) {
	b, err := r.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Bill{}).Error; err != nil {
		r.logger.Error().Err(err).Str("bill_id", id.String()).Msg("failed to delete bill")
		return nil, dbError(err, "bill")
	}
	return b, nil
}
