package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/entity"
)

// ProfileUpdate carries the business fields a user may edit. Nil means unchanged.
type ProfileUpdate struct {
	Name         *string
	BusinessName *string
	GSTIN        *string
	Address      *string
	Phone        *string
	LogoRef      *string
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*entity.User, error)
	SetPlan(ctx context.Context, id uuid.UUID, plan constants.Plan) error
	IncrementBillCount(ctx context.Context, id uuid.UUID, delta int) error
}

type userRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewUserRepository(db *gorm.DB, logger zerolog.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger.With().Str("component", "repository.users").Logger(),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, dbError(err, "user")
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, dbError(err, "user")
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	if u.SubscriptionPlan == "" {
		u.SubscriptionPlan = constants.PlanFree
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		r.logger.Error().Err(err).Str("email", u.Email).Msg("failed to create user")
		return dbError(err, "user")
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*entity.User, error) {
	set := map[string]any{}
	put := func(col string, v *string) {
		if v != nil {
			set[col] = *v
		}
	}
	put("name", upd.Name)
	put("business_name", upd.BusinessName)
	put("gstin", upd.GSTIN)
	put("address", upd.Address)
	put("phone", upd.Phone)
	put("logo_ref", upd.LogoRef)

	if len(set) > 0 {
		set["updated_at"] = time.Now().UTC()
		res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(set)
		if res.Error != nil {
			r.logger.Error().Err(res.Error).Str("user_id", id.String()).Msg("failed to update profile")
			return nil, dbError(res.Error, "user")
		}
		if res.RowsAffected == 0 {
			return nil, dbError(gorm.ErrRecordNotFound, "user")
		}
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) SetPlan(ctx context.Context, id uuid.UUID, plan constants.Plan) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("subscription_plan", plan)
	if res.Error != nil {
		return dbError(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return dbError(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// IncrementBillCount is a single UPDATE ... SET bill_count = bill_count + delta.
func (r *userRepository) IncrementBillCount(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		UpdateColumn("bill_count", gorm.Expr("bill_count + ?", delta))
	if res.Error != nil {
		r.logger.Error().Err(res.Error).Str("user_id", id.String()).Msg("failed to increment bill_count")
		return dbError(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return dbError(gorm.ErrRecordNotFound, "user")
	}
	return nil
}
