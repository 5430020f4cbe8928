package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

func setup(t *testing.T) (*Issuer, repository.CustomerRepository, *entity.User) {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), log)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(ctx, db))
	t.Cleanup(func() { repository.Close(db, nil, log) })

	u := &entity.User{Email: "seller@example.com", Name: "Seller"}
	require.NoError(t, repository.NewUserRepository(db, log).Create(ctx, u))
	customers := repository.NewCustomerRepository(db, log)
	return NewIssuer(repository.NewInvoiceRepository(db, log), customers, log), customers, u
}

func str(s string) *string { return &s }

func TestIssue_IntraState(t *testing.T) {
	iss, _, u := setup(t)

	inv, err := iss.Issue(context.Background(), u.ID, IssueRequest{
		CustomerName: "Walk-in",
		Items: []entity.InvoiceItem{
			{ProductName: "Bolt", Quantity: 10, Rate: 60, Amount: 600},
			{ProductName: "Nut", Quantity: 10, Rate: 50, Amount: 400},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, inv.Subtotal)
	assert.Equal(t, 90.0, inv.CGST)
	assert.Equal(t, 90.0, inv.SGST)
	assert.Zero(t, inv.IGST)
	assert.Equal(t, 180.0, inv.TotalGST)
	assert.Equal(t, 1180.0, inv.TotalAmount)
	assert.Equal(t, Number(u.ID, 1), inv.InvoiceNumber)
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"+strings.ToUpper(u.ID.String()[:8])+"-"))
	assert.True(t, strings.HasSuffix(inv.InvoiceNumber, "-0001"))
}

func TestIssue_InterStateUsesIGST(t *testing.T) {
	iss, _, u := setup(t)

	inv, err := iss.Issue(context.Background(), u.ID, IssueRequest{
		CustomerName:  "Acme",
		CustomerGSTIN: str("29ABCDE1234F1Z5"),
		// amount is authoritative, not quantity*rate
		Items: []entity.InvoiceItem{{ProductName: "Service", Quantity: 1, Rate: 1200, Amount: 1000}},
	})
	require.NoError(t, err)
	assert.Zero(t, inv.CGST)
	assert.Zero(t, inv.SGST)
	assert.Equal(t, 180.0, inv.IGST)
	assert.Equal(t, 1180.0, inv.TotalAmount)
}

func TestIssue_FillsSnapshotFromCustomer(t *testing.T) {
	ctx := context.Background()
	iss, customers, u := setup(t)
	c := &entity.Customer{UserID: u.ID, Name: "Acme", GSTIN: str("29ABCDE1234F1Z5"), Address: str("Bengaluru")}
	require.NoError(t, customers.Create(ctx, c))

	inv, err := iss.Issue(ctx, u.ID, IssueRequest{
		CustomerID: &c.ID,
		Items:      []entity.InvoiceItem{{ProductName: "Bolt", Amount: 100}},
		Notes:      str("thanks"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", inv.CustomerName)
	assert.Equal(t, "Bengaluru", *inv.CustomerAddress)
	assert.Equal(t, 18.0, inv.IGST)

	other := uuid.New()
	_, err = iss.Issue(ctx, other, IssueRequest{CustomerID: &c.ID, Items: []entity.InvoiceItem{{ProductName: "Bolt", Amount: 1}}})
	assert.True(t, errors.Is(err, common.ErrNotFound), "customer of another user")
}

func TestIssue_Validation(t *testing.T) {
	iss, _, u := setup(t)
	ctx := context.Background()

	_, err := iss.Issue(ctx, u.ID, IssueRequest{CustomerName: "A"})
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = iss.Issue(ctx, u.ID, IssueRequest{Items: []entity.InvoiceItem{{ProductName: "x", Amount: 1}}})
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = iss.Issue(ctx, u.ID, IssueRequest{CustomerName: "A", Items: []entity.InvoiceItem{{ProductName: "x", Amount: -5}}})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestIssue_SequentialNumbers(t *testing.T) {
	iss, _, u := setup(t)
	ctx := context.Background()

	const n = 5
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := iss.Issue(ctx, u.ID, IssueRequest{CustomerName: "A", Items: []entity.InvoiceItem{{ProductName: "x", Amount: 1}}})
			if assert.NoError(t, err) {
				numbers <- inv.InvoiceNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "duplicate %s", num)
		seen[num] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[Number(u.ID, i)])
	}

	list, err := iss.List(ctx, u.ID, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, list, n)
}
