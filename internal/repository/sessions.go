package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/internal/entity"
)

type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, token string) (*entity.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewSessionRepository(db *gorm.DB, logger zerolog.Logger) SessionRepository {
	return &sessionRepository{db: db, logger: logger.With().Str("component", "repository.sessions").Logger()}
}

func (r *sessionRepository) Create(ctx context.Context, s *entity.Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		r.logger.Error().Err(err).Str("user_id", s.UserID.String()).Msg("failed to create session")
		return dbError(err, "session")
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*entity.Session, error) {
	var s entity.Session
	if err := r.db.WithContext(ctx).First(&s, "token = ?", token).Error; err != nil {
		return nil, dbError(err, "session")
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return dbError(r.db.WithContext(ctx).Delete(&entity.Session{}, "token = ?", token).Error, "session")
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&entity.Session{}, "expires_at <= ?", now)
	return res.RowsAffected, dbError(res.Error, "session")
}
