// Package customers manages a user's buyers. Bill ingestion also creates and
// accrues customers through the repository.
package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

type Request struct {
	Name    *string `json:"name"`
	GSTIN   *string `json:"gstin"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (r *Request) clean() {
	for _, p := range []**string{&r.Name, &r.GSTIN, &r.Email, &r.Phone, &r.Address} {
		if *p != nil {
			t := strings.TrimSpace(**p)
			*p = &t
		}
	}
	if r.GSTIN != nil {
		up := strings.ToUpper(*r.GSTIN)
		r.GSTIN = &up
	}
}

func (r *Request) validate(create bool) error {
	v := common.NewValidator()
	if create || r.Name != nil {
		v.Field("name", r.Name, common.Required, common.MaxLength(200))
	}
	return v.
		Field("gstin", r.GSTIN, common.GSTIN).
		Field("email", r.Email, common.MaxLength(254)).
		Field("phone", r.Phone, common.MaxLength(20)).
		Field("address", r.Address, common.MaxLength(500)).
		Err()
}

type Service struct {
	repo   repository.CustomerRepository
	logger zerolog.Logger
}

func NewService(repo repository.CustomerRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "customers").Logger()}
}

// Create fails with a validation error when the name is already taken.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req Request) (*entity.Customer, error) {
	req.clean()
	if err := req.validate(true); err != nil {
		return nil, err
	}
	c := &entity.Customer{
		UserID:  userID,
		Name:    *req.Name,
		GSTIN:   emptyToNil(req.GSTIN),
		Email:   emptyToNil(req.Email),
		Phone:   emptyToNil(req.Phone),
		Address: emptyToNil(req.Address),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID.String()).Str("customer_id", c.ID.String()).Msg("customers.create.ok")
	return c, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page repository.Page) ([]*entity.Customer, error) {
	return s.repo.List(ctx, userID, page)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Customer, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req Request) (*entity.Customer, error) {
	req.clean()
	if err := req.validate(false); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, id, repository.CustomerUpdate{
		Name:    req.Name,
		GSTIN:   req.GSTIN,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID.String()).Str("customer_id", id.String()).Msg("customers.delete.ok")
	return nil
}

func emptyToNil(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
