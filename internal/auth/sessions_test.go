package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

func setup(t *testing.T) *Service {
	t.Helper()
	log := zerolog.Nop()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), log)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(context.Background(), db))
	t.Cleanup(func() { repository.Close(db, nil, log) })
	return NewService(repository.NewUserRepository(db, log), repository.NewSessionRepository(db, log), time.Hour, log)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	u, sess, err := svc.Login(ctx, " Owner@Example.com ", "")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.Equal(t, "owner", u.Name)
	assert.NotEmpty(t, sess.Token)

	again, sess2, err := svc.Login(ctx, "owner@example.com", "Other")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID, "existing user is reused")
	assert.NotEqual(t, sess.Token, sess2.Token)

	got, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = svc.Authenticate(ctx, sess.Token)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestAuthenticate_Rejects(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.Equal(t, 401, common.HTTPStatus(err))

	_, err = svc.Authenticate(ctx, "nope")
	assert.Equal(t, 401, common.HTTPStatus(err))

	_, sess, err := svc.Login(ctx, "a@example.com", "A")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, sess.Token)
	assert.Equal(t, 401, common.HTTPStatus(err))
	assert.Equal(t, "Session expired", common.PublicMessage(err))

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, _, err = svc.Login(ctx, "not-an-email", "")
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestSetPlan(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	u, _, err := svc.Login(ctx, "owner@example.com", "Owner")
	require.NoError(t, err)
	assert.Equal(t, constants.PlanFree, u.SubscriptionPlan)

	got, err := svc.SetPlan(ctx, " OWNER@example.com", constants.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, constants.PlanPro, got.SubscriptionPlan)

	_, err = svc.SetPlan(ctx, "owner@example.com", constants.Plan("gold"))
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.SetPlan(ctx, "ghost@example.com", constants.PlanPro)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
