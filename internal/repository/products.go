package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/internal/entity"
)

type ProductUpdate struct {
	Name         *string
	HSNCode      *string
	Unit         *string
	DefaultPrice *float64
}

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Product, error)
	List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Product, error)
	Update(ctx context.Context, userID, id uuid.UUID, upd ProductUpdate) (*entity.Product, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type productRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewProductRepository(db *gorm.DB, logger zerolog.Logger) ProductRepository {
	return &productRepository{db: db, logger: logger.With().Str("component", "repository.products").Logger()}
}

func (r *productRepository) Create(ctx context.Context, p *entity.Product) error {
	if p.Unit == "" {
		p.Unit = "pcs"
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		r.logger.Error().Err(err).Str("user_id", p.UserID.String()).Str("name", p.Name).Msg("failed to create product")
		return dbError(err, "product")
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
		return nil, dbError(err, "product")
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Product, error) {
	page = page.normalized()
	var out []*entity.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, dbError(err, "products")
	}
	return out, nil
}

func (r *productRepository) Update(ctx context.Context, userID, id uuid.UUID, upd ProductUpdate) (*entity.Product, error) {
	set := map[string]any{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.HSNCode != nil {
		set["hsn_code"] = *upd.HSNCode
	}
	if upd.Unit != nil {
		set["unit"] = *upd.Unit
	}
	if upd.DefaultPrice != nil {
		set["default_price"] = *upd.DefaultPrice
	}
	if len(set) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ? AND user_id = ?", id, userID).Updates(set)
		if res.Error != nil {
			return nil, dbError(res.Error, "product")
		}
		if res.RowsAffected == 0 {
			return nil, dbError(gorm.ErrRecordNotFound, "product")
		}
	}
	return r.Get(ctx, userID, id)
}

func (r *productRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Product{})
	if res.Error != nil {
		return dbError(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return dbError(gorm.ErrRecordNotFound, "product")
	}
	return nil
}
