package profiles

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/normalize"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/storage"
)

// Logos are small: longest edge 400 px, JPEG quality 90.
var LogoOptions = normalize.Options{MaxEdge: 400, JPEGQuality: 90}

// Service handles the user's business profile.
type Service struct {
	users  repository.UserRepository
	blobs  storage.BlobStore
	logos  *normalize.Normalizer
	logger zerolog.Logger
}

// NewService creates a new profile service.
func NewService(users repository.UserRepository, blobs storage.BlobStore, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		blobs:  blobs,
		logos:  normalize.New(LogoOptions, logger),
		logger: logger.With().Str("component", "profiles").Logger(),
	}
}

// UpdateProfileRequest represents the editable business fields.
type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	BusinessName *string `json:"business_name"`
	GSTIN        *string `json:"gstin"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile updates the business fields that were supplied.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*entity.User, error) {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		t := strings.TrimSpace(*p)
		return &t
	}
	req.Name, req.BusinessName, req.Address, req.Phone = trim(req.Name), trim(req.BusinessName), trim(req.Address), trim(req.Phone)
	if g := trim(req.GSTIN); g != nil {
		up := strings.ToUpper(*g)
		req.GSTIN = &up
	}

	err := common.NewValidator().
		Field("name", req.Name, common.MaxLength(200)).
		Field("business_name", req.BusinessName, common.MaxLength(200)).
		Field("gstin", req.GSTIN, common.GSTIN).
		Field("address", req.Address, common.MaxLength(500)).
		Field("phone", req.Phone, common.MaxLength(20)).
		Err()
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name == "" {
		return nil, common.ValidationFailed("name must not be empty")
	}

	u, err := s.users.UpdateProfile(ctx, userID, repository.ProfileUpdate{
		Name:         req.Name,
		BusinessName: req.BusinessName,
		GSTIN:        req.GSTIN,
		Address:      req.Address,
		Phone:        req.Phone,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID.String()).Msg("profile updated successfully")
	return u, nil
}

// LogoKey is the blob key of a user's logo.
func LogoKey(userID uuid.UUID) string {
	return "logo_" + userID.String() + ".jpg"
}

// UploadLogo re-encodes the image as a small JPEG and records it on the profile.
func (s *Service) UploadLogo(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (*entity.User, error) {
	kind, ok := constants.KindForContentType(contentType)
	if !ok || kind != constants.KindImage {
		return nil, common.NewAppError("UNSUPPORTED_FORMAT", "Logo must be a JPG or PNG image.", common.ErrUnsupportedFormat)
	}
	jpeg, err := s.logos.JPEG(data)
	if err != nil {
		return nil, err
	}

	key := LogoKey(userID)
	if err := s.blobs.Put(ctx, key, jpeg); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("profiles.logo.store_failed")
		return nil, common.NewAppError("STORAGE_ERROR", "failed to store logo", err)
	}
	u, err := s.users.UpdateProfile(ctx, userID, repository.ProfileUpdate{LogoRef: &key})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID.String()).Int("bytes", len(jpeg)).Msg("profiles.logo.ok")
	return u, nil
}

// OpenLogo returns the stored logo, or NotFound when none was uploaded.
func (s *Service) OpenLogo(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.LogoRef == nil || *u.LogoRef == "" {
		return nil, common.NotFound("logo")
	}
	return s.blobs.Open(ctx, *u.LogoRef)
}
