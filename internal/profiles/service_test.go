package profiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/storage"
)

func setup(t *testing.T) (*Service, *entity.User) {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), log)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(ctx, db))
	t.Cleanup(func() { repository.Close(db, nil, log) })

	blobs, err := storage.NewFSStore(t.TempDir(), log)
	require.NoError(t, err)
	users := repository.NewUserRepository(db, log)
	u := &entity.User{Email: "shop@example.com", Name: "Shop"}
	require.NoError(t, users.Create(ctx, u))
	return NewService(users, blobs, log), u
}

func str(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	svc, u := setup(t)
	ctx := context.Background()

	got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{
		BusinessName: str("  Sharma Traders "),
		GSTIN:        str("29abcde1234f1z5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", *got.BusinessName)
	assert.Equal(t, "29ABCDE1234F1Z5", *got.GSTIN)
	assert.Equal(t, "Shop", got.Name, "omitted fields are unchanged")

	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{GSTIN: str("not-a-gstin")})
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileRequest{Name: str("  ")})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestUploadLogo(t *testing.T) {
	svc, u := setup(t)
	ctx := context.Background()

	_, err := svc.OpenLogo(ctx, u.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1000, 800))))

	got, err := svc.UploadLogo(ctx, u.ID, buf.Bytes(), "image/png")
	require.NoError(t, err)
	require.NotNil(t, got.LogoRef)
	assert.Equal(t, LogoKey(u.ID), *got.LogoRef)

	rc, err := svc.OpenLogo(ctx, u.ID)
	require.NoError(t, err)
	defer rc.Close()
	img, err := jpeg.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())

	_, err = svc.UploadLogo(ctx, u.ID, []byte("%PDF-1.4"), "application/pdf")
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))

	_, err = svc.UploadLogo(ctx, u.ID, []byte("garbage"), "image/png")
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}
