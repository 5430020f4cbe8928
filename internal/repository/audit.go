package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/joseph-ayodele/billbook/internal/entity"
)

type AuditRepository interface {
	Record(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, changes any) error
	ListForEntity(ctx context.Context, userID, entityID uuid.UUID) ([]*entity.AuditLog, error)
}

type auditRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewAuditRepository(db *gorm.DB, logger zerolog.Logger) AuditRepository {
	return &auditRepository{db: db, logger: logger.With().Str("component", "repository.audit").Logger()}
}

func (r *auditRepository) Record(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, changes any) error {
	b, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	row := &entity.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    string(b),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.logger.Error().Err(err).Str("action", action).Str("entity_id", entityID.String()).Msg("failed to write audit log")
		return dbError(err, "audit log")
	}
	return nil
}

func (r *auditRepository) ListForEntity(ctx context.Context, userID, entityID uuid.UUID) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entity_id = ?", userID, entityID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, dbError(err, "audit logs")
}
