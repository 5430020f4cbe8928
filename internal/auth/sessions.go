// Package auth owns server-side sessions. The OAuth exchange that would mint
// them in production lives outside this service; Login is its local stand-in.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

const DefaultSessionTTL = 7 * 24 * time.Hour

type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(users repository.UserRepository, sessions repository.SessionRepository, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Login finds or creates the user by email and mints a session for them.
func (s *Service) Login(ctx context.Context, email, name string) (*entity.User, *entity.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, common.ValidationFailed("a valid email is required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		if name = strings.TrimSpace(name); name == "" {
			name = email[:strings.Index(email, "@")]
		}
		u = &entity.User{Email: email, Name: name}
		err = s.users.Create(ctx, u)
	}
	if err != nil {
		return nil, nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, nil, common.WrapError(err, "failed to generate session token")
	}
	sess := &entity.Session{Token: token, UserID: u.ID, ExpiresAt: s.now().UTC().Add(s.ttl)}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("user_id", u.ID.String()).Time("expires_at", sess.ExpiresAt).Msg("auth.session.created")
	return u, sess, nil
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, common.Unauthorized("Not authenticated")
	}
	sess, err := s.sessions.Get(ctx, token)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.Unauthorized("Invalid session")
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, common.Unauthorized("Session expired")
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.Unauthorized("Invalid session")
	}
	return u, err
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// PurgeExpired drops every session past its expiry.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now().UTC())
	if err == nil && n > 0 {
		s.logger.Info().Int64("sessions", n).Msg("auth.session.purged")
	}
	return n, err
}

func (s *Service) TTL() time.Duration { return s.ttl }

// SetPlan moves an existing user onto a subscription tier. Payment
// verification is done out of band; this is the operator's switch.
func (s *Service) SetPlan(ctx context.Context, email string, plan constants.Plan) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	switch plan {
	case constants.PlanFree, constants.PlanPro, constants.PlanBusiness:
	default:
		return nil, common.ValidationFailedf("unknown plan %q", plan)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPlan(ctx, u.ID, plan); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID.String()).Str("plan", string(plan)).Msg("auth.plan.updated")
	return s.users.GetByID(ctx, u.ID)
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
