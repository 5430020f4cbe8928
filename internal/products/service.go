// Package products manages a user's product catalogue.
package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

const defaultUnit = "pcs"

type Request struct {
	Name         *string  `json:"name"`
	HSNCode      *string  `json:"hsn_code"`
	Unit         *string  `json:"unit"`
	DefaultPrice *float64 `json:"default_price"`
}

func (r Request) validate(create bool) error {
	v := common.NewValidator()
	if create || r.Name != nil {
		v.Field("name", r.Name, common.Required, common.MaxLength(200))
	}
	v.Field("hsn_code", r.HSNCode, common.MaxLength(8)).
		Field("unit", r.Unit, common.MaxLength(20))
	if r.DefaultPrice != nil {
		v.Field("default_price", *r.DefaultPrice, common.NonNegative)
	}
	return v.Err()
}

type Service struct {
	repo   repository.ProductRepository
	logger zerolog.Logger
}

func NewService(repo repository.ProductRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "products").Logger()}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req Request) (*entity.Product, error) {
	if err := req.validate(true); err != nil {
		return nil, err
	}
	p := &entity.Product{
		UserID:  userID,
		Name:    strings.TrimSpace(*req.Name),
		HSNCode: req.HSNCode,
		Unit:    defaultUnit,
	}
	if req.Unit != nil && strings.TrimSpace(*req.Unit) != "" {
		p.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.DefaultPrice != nil {
		p.DefaultPrice = *req.DefaultPrice
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID.String()).Str("product_id", p.ID.String()).Msg("products.create.ok")
	return p, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page repository.Page) ([]*entity.Product, error) {
	return s.repo.List(ctx, userID, page)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Product, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req Request) (*entity.Product, error) {
	if err := req.validate(false); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, id, repository.ProductUpdate{
		Name:         req.Name,
		HSNCode:      req.HSNCode,
		Unit:         req.Unit,
		DefaultPrice: req.DefaultPrice,
	})
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
