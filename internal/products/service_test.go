package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

func setup(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), log)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(ctx, db))
	t.Cleanup(func() { repository.Close(db, nil, log) })

	u := &entity.User{Email: "p@example.com", Name: "P"}
	require.NoError(t, repository.NewUserRepository(db, log).Create(ctx, u))
	return NewService(repository.NewProductRepository(db, log), log), u.ID
}

func TestProductLifecycle(t *testing.T) {
	svc, userID := setup(t)
	ctx := context.Background()
	name := "Hex bolt"

	p, err := svc.Create(ctx, userID, Request{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "pcs", p.Unit)
	assert.Zero(t, p.DefaultPrice)

	price := 12.5
	up, err := svc.Update(ctx, userID, p.ID, Request{DefaultPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, 12.5, up.DefaultPrice)
	assert.Equal(t, name, up.Name)

	neg := -1.0
	_, err = svc.Update(ctx, userID, p.ID, Request{DefaultPrice: &neg})
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.Create(ctx, userID, Request{})
	assert.True(t, errors.Is(err, common.ErrValidation))

	list, err := svc.List(ctx, userID, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, userID, p.ID))
	_, err = svc.Get(ctx, userID, p.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
