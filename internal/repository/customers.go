package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joseph-ayodele/billbook/internal/entity"
)

// CustomerUpdate holds editable contact fields. Nil means unchanged.
type CustomerUpdate struct {
	Name    *string
	GSTIN   *string
	Email   *string
	Phone   *string
	Address *string
}

type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Customer, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*entity.Customer, error)
	List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Customer, error)
	Update(ctx context.Context, userID, id uuid.UUID, upd CustomerUpdate) (*entity.Customer, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	Accrue(ctx context.Context, userID uuid.UUID, name string, gstin *string, amount float64) (*entity.Customer, error)
}

type customerRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewCustomerRepository(db *gorm.DB, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{db: db, logger: logger.With().Str("component", "repository.customers").Logger()}
}

func (r *customerRepository) Create(ctx context.Context, c *entity.Customer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		r.logger.Error().Err(err).Str("user_id", c.UserID.String()).Str("name", c.Name).Msg("failed to create customer")
		return dbError(err, "customer")
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, dbError(err, "customer")
	}
	return &c, nil
}

func (r *customerRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&c).Error; err != nil {
		return nil, dbError(err, "customer")
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, userID uuid.UUID, page Page) ([]*entity.Customer, error) {
	page = page.normalized()
	var out []*entity.Customer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list customers")
		return nil, dbError(err, "customers")
	}
	return out, nil
}

func (r *customerRepository) Update(ctx context.Context, userID, id uuid.UUID, upd CustomerUpdate) (*entity.Customer, error) {
	set := map[string]any{}
	for col, v := range map[string]*string{
		"name":    upd.Name,
		"gstin":   upd.GSTIN,
		"email":   upd.Email,
		"phone":   upd.Phone,
		"address": upd.Address,
	} {
		if v != nil {
			set[col] = *v
		}
	}
	if len(set) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.Customer{}).Where("id = ? AND user_id = ?", id, userID).Updates(set)
		if res.Error != nil {
			return nil, dbError(res.Error, "customer")
		}
		if res.RowsAffected == 0 {
			return nil, dbError(gorm.ErrRecordNotFound, "customer")
		}
	}
	return r.Get(ctx, userID, id)
}

func (r *customerRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Customer{})
	if res.Error != nil {
		return dbError(res.Error, "customer")
	}
	if res.RowsAffected == 0 {
		return dbError(gorm.ErrRecordNotFound, "customer")
	}
	return nil
}

func (r *customerRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Where("user_id = ?", userID).Count(&n).Error
	return n, dbError(err, "customers")
}

// Accrue creates the (user, name) customer seeded with amount, or adds amount to
// the existing row's total_purchases. The insert-or-increment is one statement,
// so concurrent first sightings of a buyer cannot produce duplicates.
func (r *customerRepository) Accrue(ctx context.Context, userID uuid.UUID, name string, gstin *string, amount float64) (*entity.Customer, error) {
	var out entity.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := entity.Customer{
			UserID:         userID,
			Name:           name,
			GSTIN:          gstin,
			TotalPurchases: amount,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_purchases": gorm.Expr("customers.total_purchases + excluded.total_purchases"),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND name = ?", userID, name).First(&out).Error
	})
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Str("name", name).Msg("failed to accrue customer purchases")
		return nil, dbError(err, "customer")
	}
	return &out, nil
}
