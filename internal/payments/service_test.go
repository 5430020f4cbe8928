package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

type fixture struct {
	svc   *Service
	txs   repository.TransactionRepository
	user  *entity.User
	calls *atomic.Int32
}

func setup(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), log)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(ctx, db))
	t.Cleanup(func() { repository.Close(db, nil, log) })

	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	u := &entity.User{Email: "pay@example.com", Name: "Pay"}
	require.NoError(t, repository.NewUserRepository(db, log).Create(ctx, u))
	txs := repository.NewTransactionRepository(db, log)
	gw := NewRazorpay(RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "secret", BaseURL: srv.URL + "/v1"}, log)
	return &fixture{svc: NewService(gw, txs, "rzp_test_key", log), txs: txs, user: u, calls: calls}
}

func TestCreateOrder(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		key, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", key)
		assert.Equal(t, "secret", secret)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 499900, body["amount"])
		assert.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_ABC","amount":499900,"currency":"INR","status":"created"}`))
	})
	ctx := context.Background()

	out, err := f.svc.CreateOrder(ctx, f.user.ID, constants.PlanPro, constants.PeriodYearly)
	require.NoError(t, err)
	assert.Equal(t, "order_ABC", out.OrderID)
	assert.EqualValues(t, 499900, out.Amount)
	assert.Equal(t, "rzp_test_key", out.KeyID)

	txs, err := f.txs.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "created", txs[0].Status)
	assert.Equal(t, constants.PlanPro, txs[0].Plan)
}

func TestCreateOrder_Failures(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"description":"down"}}`))
	})
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, f.user.ID, "gold", constants.PeriodMonthly)
	assert.True(t, errors.Is(err, common.ErrValidation))
	_, err = f.svc.CreateOrder(ctx, f.user.ID, constants.PlanFree, constants.PeriodMonthly)
	assert.True(t, errors.Is(err, common.ErrValidation), "free is not purchasable")
	_, err = f.svc.CreateOrder(ctx, f.user.ID, constants.PlanBusiness, "weekly")
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.EqualValues(t, 0, f.calls.Load())

	_, err = f.svc.CreateOrder(ctx, f.user.ID, constants.PlanBusiness, constants.PeriodMonthly)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpstreamUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, common.HTTPStatus(err))

	txs, err := f.txs.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestPrice(t *testing.T) {
	for plan, periods := range map[constants.Plan][2]int64{
		constants.PlanPro:      {49900, 499900},
		constants.PlanBusiness: {99900, 999900},
	} {
		m, err := Price(plan, constants.PeriodMonthly)
		require.NoError(t, err)
		y, err := Price(plan, constants.PeriodYearly)
		require.NoError(t, err)
		assert.Equal(t, periods, [2]int64{m, y}, plan)
	}
}
