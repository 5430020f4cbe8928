package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
)

func ptr[T any](v T) *T { return &v }

func TestBillRepository_ExtractedDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "a@example.com")
	repo := NewBillRepository(db, zerolog.Nop())

	data := &entity.ExtractedData{
		SellerName:  ptr("Sharma Traders"),
		SellerGSTIN: ptr("27AAPFU0939F1ZV"),
		BuyerName:   ptr("Acme"),
		Products: []entity.LineItem{
			{Name: ptr("Bolt"), HSNCode: ptr("7318"), Quantity: ptr(10.0), Rate: ptr(100.0), Amount: ptr(1000.0)},
			{Name: ptr("Unknown row")},
		},
		Subtotal:        ptr(1000.0),
		CGST:            ptr(0.0),
		SGST:            ptr(0.0),
		IGST:            ptr(180.0),
		TotalAmount:     ptr(1180.0),
		ConfidenceScore: 0.87,
	}
	b := &entity.Bill{
		UserID:        u.ID,
		FileName:      "bill.jpg",
		FileType:      constants.KindImage,
		StorageRef:    "x.jpg",
		UploadDate:    time.Now().UTC(),
		OCRStatus:     constants.OCRStatusCompleted,
		ExtractedData: data,
	}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.Get(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got.ExtractedData)
	assert.Nil(t, got.ExtractedData.TotalGST, "unknown stays unknown")
	assert.NotNil(t, got.ExtractedData.CGST, "zero stays a known zero")

	_, err = repo.Get(ctx, uuid.New(), b.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestBillRepository_OrderingAndExtractedFilter(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "b@example.com")
	repo := NewBillRepository(db, zerolog.Nop())

	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mk := func(name string, at time.Time, data *entity.ExtractedData) *entity.Bill {
		b := &entity.Bill{UserID: u.ID, FileName: name, FileType: constants.KindPDF, StorageRef: name,
			UploadDate: at, OCRStatus: constants.OCRStatusCompleted, ExtractedData: data}
		require.NoError(t, repo.Create(ctx, b))
		return b
	}
	mk("old", day.Add(-48*time.Hour), entity.UnknownExtractedData())
	mk("tie-1", day, entity.UnknownExtractedData())
	mk("tie-2", day, entity.UnknownExtractedData())
	mk("no-data", day.Add(time.Hour), nil)

	all, err := repo.List(ctx, u.ID, Page{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"no-data", "tie-1", "tie-2", "old"},
		[]string{all[0].FileName, all[1].FileName, all[2].FileName, all[3].FileName})

	extracted, err := repo.ListExtracted(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, extracted, 3)
	assert.Equal(t, "tie-1", extracted[0].FileName)

	page, err := repo.List(ctx, u.ID, Page{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "tie-1", page[0].FileName)
}

func TestBillRepository_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "c@example.com")
	repo := NewBillRepository(db, zerolog.Nop())

	b := &entity.Bill{UserID: u.ID, FileName: "f.png", FileType: constants.KindImage, StorageRef: "f.png",
		UploadDate: time.Now().UTC(), OCRStatus: constants.OCRStatusCompleted,
		ExtractedData: &entity.ExtractedData{BuyerName: ptr("Old"), TotalAmount: ptr(10.0), Products: []entity.LineItem{}}}
	require.NoError(t, repo.Create(ctx, b))

	replacement := &entity.ExtractedData{SellerName: ptr("New"), Products: []entity.LineItem{}, ConfidenceScore: 1}
	got, err := repo.ReplaceExtractedData(ctx, u.ID, b.ID, replacement)
	require.NoError(t, err)
	assert.Nil(t, got.ExtractedData.BuyerName, "replace does not merge")
	assert.Nil(t, got.ExtractedData.TotalAmount)
	assert.Equal(t, "New", *got.ExtractedData.SellerName)

	deleted, err := repo.Delete(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "f.png", deleted.StorageRef)
	_, err = repo.Delete(ctx, u.ID, b.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestCustomerRepository_AccrueCreatesThenAdds(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "d@example.com")
	repo := NewCustomerRepository(db, zerolog.Nop())

	c, err := repo.Accrue(ctx, u.ID, "Acme", ptr("29ABCDE1234F1Z5"), 1180.00)
	require.NoError(t, err)
	assert.Equal(t, 1180.00, c.TotalPurchases)
	assert.Equal(t, "29ABCDE1234F1Z5", *c.GSTIN)

	c2, err := repo.Accrue(ctx, u.ID, "Acme", nil, 590.00)
	require.NoError(t, err)
	assert.Equal(t, c.ID, c2.ID)
	assert.InDelta(t, 1770.00, c2.TotalPurchases, 1e-9)
	assert.Equal(t, "29ABCDE1234F1Z5", *c2.GSTIN, "gstin of the first sighting is kept")

	n, err := repo.Count(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// a different user gets its own Acme
	other := seedUser(t, db, "e@example.com")
	c3, err := repo.Accrue(ctx, other.ID, "Acme", nil, 0)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, c3.ID)
	assert.Zero(t, c3.TotalPurchases)
}

func TestCustomerRepository_ExplicitDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "f@example.com")
	repo := NewCustomerRepository(db, zerolog.Nop())

	require.NoError(t, repo.Create(ctx, &entity.Customer{UserID: u.ID, Name: "Acme"}))
	err := repo.Create(ctx, &entity.Customer{UserID: u.ID, Name: "Acme"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))

	list, err := repo.List(ctx, u.ID, Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := repo.Update(ctx, u.ID, list[0].ID, CustomerUpdate{Phone: ptr("98200 00000")})
	require.NoError(t, err)
	assert.Equal(t, "98200 00000", *updated.Phone)
	assert.Equal(t, "Acme", updated.Name)

	require.NoError(t, repo.Delete(ctx, u.ID, list[0].ID))
	assert.True(t, errors.Is(repo.Delete(ctx, u.ID, list[0].ID), common.ErrNotFound))
}

func TestUserRepository_IncrementBillCount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "g@example.com")
	repo := NewUserRepository(db, zerolog.Nop())
	assert.Equal(t, constants.PlanFree, u.SubscriptionPlan)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementBillCount(ctx, u.ID, 1))
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.BillCount)

	err = repo.IncrementBillCount(ctx, uuid.New(), 1)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestInvoiceRepository_CreateNumbered(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "h@example.com")
	repo := NewInvoiceRepository(db, zerolog.Nop())

	format := func(seq int) string { return fmt.Sprintf("INV-%04d", seq) }
	for i := 1; i <= 3; i++ {
		inv := &entity.Invoice{UserID: u.ID, CustomerName: "Acme", InvoiceDate: time.Now().UTC(),
			Items: []entity.InvoiceItem{{ProductName: "x", Quantity: 1, Rate: 1, Amount: 1}}}
		require.NoError(t, repo.CreateNumbered(ctx, inv, format))
		assert.Equal(t, fmt.Sprintf("INV-%04d", i), inv.InvoiceNumber)
	}

	list, err := repo.List(ctx, u.ID, Page{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "x", list[0].Items[0].ProductName)

	err = repo.CreateNumbered(ctx, &entity.Invoice{UserID: uuid.New(), CustomerName: "n"}, format)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := seedUser(t, db, "i@example.com")
	repo := NewSessionRepository(db, zerolog.Nop())
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &entity.Session{Token: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.Session{Token: "dead", UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	s, err := repo.Get(ctx, "live")
	require.NoError(t, err)
	assert.False(t, s.Expired(now))
}
