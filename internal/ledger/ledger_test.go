package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

var now = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	agg       *Aggregator
	bills     repository.BillRepository
	customers repository.CustomerRepository
	user      *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), log)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(ctx, db))
	t.Cleanup(func() { repository.Close(db, nil, log) })

	f := &fixture{
		bills:     repository.NewBillRepository(db, log),
		customers: repository.NewCustomerRepository(db, log),
		user:      &entity.User{Email: "ledger@example.com", Name: "Ledger"},
	}
	require.NoError(t, repository.NewUserRepository(db, log).Create(ctx, f.user))
	f.agg = NewAggregator(f.bills, f.customers, func() time.Time { return now }, log)
	return f
}

func num(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func (f *fixture) addBill(t *testing.T, uploaded time.Time, data *entity.ExtractedData) *entity.Bill {
	t.Helper()
	b := &entity.Bill{
		UserID:        f.user.ID,
		FileName:      "bill.pdf",
		FileType:      constants.KindPDF,
		StorageRef:    "x.pdf",
		ContentType:   "application/pdf",
		UploadDate:    uploaded,
		OCRStatus:     constants.OCRStatusCompleted,
		ExtractedData: data,
	}
	require.NoError(t, f.bills.Create(context.Background(), b))
	return b
}

func TestLedger_ProjectionAndDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.addBill(t, now.Add(-48*time.Hour), &entity.ExtractedData{
		BuyerName:     str("Acme"),
		InvoiceNumber: str("INV-9"),
		Products:      []entity.LineItem{{Name: str("Bolt")}, {Name: str("Nut")}},
		Subtotal:      num(1000),
		IGST:          num(180),
		TotalGST:      num(180),
		TotalAmount:   num(1180),
	})
	f.addBill(t, now.Add(-time.Hour), entity.UnknownExtractedData())
	f.addBill(t, now, nil)

	rows, err := f.agg.Ledger(ctx, f.user.ID, Filters{})
	require.NoError(t, err)
	require.Len(t, rows, 2, "bills without extracted data are skipped")

	assert.Equal(t, "N/A", rows[0].Customer)
	assert.Equal(t, "N/A", rows[0].InvoiceNumber)
	assert.Zero(t, rows[0].TotalAmount)
	assert.Zero(t, rows[0].Products)

	assert.Equal(t, "Acme", rows[1].Customer)
	assert.Equal(t, "INV-9", rows[1].InvoiceNumber)
	assert.Equal(t, 2, rows[1].Products)
	assert.Equal(t, 180.0, rows[1].IGST)
	assert.Zero(t, rows[1].CGST)
	assert.Equal(t, 1180.0, rows[1].TotalAmount)

	again, err := f.agg.Ledger(ctx, f.user.ID, Filters{})
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestLedger_Filters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.addBill(t, time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC), &entity.ExtractedData{BuyerName: str("Acme"), Products: []entity.LineItem{}})
	f.addBill(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), &entity.ExtractedData{BuyerName: str("Beta"), Products: []entity.LineItem{}})
	f.addBill(t, time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC), &entity.ExtractedData{BuyerName: str("Acme"), Products: []entity.LineItem{}})

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	rows, err := f.agg.Ledger(ctx, f.user.ID, Filters{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, rows, 2, "to is an inclusive day")

	rows, err = f.agg.Ledger(ctx, f.user.ID, Filters{Customer: "Acme"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = f.agg.Ledger(ctx, f.user.ID, Filters{From: &from, Customer: "Acme"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Date.Day())
}

func TestDashboardStats_MonthlyRollup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.addBill(t, now.AddDate(0, -1, 0), &entity.ExtractedData{TotalAmount: num(1000), TotalGST: num(180), Products: []entity.LineItem{}})
	f.addBill(t, now.AddDate(-1, 0, 0), &entity.ExtractedData{TotalAmount: num(500), TotalGST: num(90), Products: []entity.LineItem{}})
	f.addBill(t, now.Add(-time.Hour), &entity.ExtractedData{TotalAmount: num(118.005), TotalGST: num(18.004), Products: []entity.LineItem{}})
	f.addBill(t, now, entity.UnknownExtractedData())
	_, err := f.customers.Accrue(ctx, f.user.ID, "Acme", nil, 0)
	require.NoError(t, err)

	stats, err := f.agg.DashboardStats(ctx, f.user.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 4, stats.TotalBills)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.Equal(t, 1618.01, stats.TotalSales)
	assert.Equal(t, 288.0, stats.TotalGST)
	assert.Equal(t, 118.01, stats.MonthlySales, "earlier months only count toward totals")
	assert.Equal(t, 18.0, stats.MonthlyGST)
	require.Len(t, stats.RecentBills, 4)
	assert.True(t, stats.RecentBills[0].UploadDate.Equal(now))
}

func TestDashboardStats_RecentIsCappedAndStable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ids []string
	for i := 0; i < 7; i++ {
		b := f.addBill(t, now, entity.UnknownExtractedData())
		ids = append(ids, b.ID.String())
	}

	stats, err := f.agg.DashboardStats(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, stats.RecentBills, 5)
	for i, b := range stats.RecentBills {
		assert.Equal(t, ids[i], b.ID.String(), "ties keep insertion order")
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addBill(t, time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC), &entity.ExtractedData{
		BuyerName:   str("Acme"),
		Subtotal:    num(1000),
		CGST:        num(90),
		SGST:        num(90),
		TotalGST:    num(180),
		TotalAmount: num(1180),
		Products:    []entity.LineItem{{Name: str("Bolt")}},
	})

	out, err := f.agg.Export(ctx, f.user.ID, "xlsx", Filters{})
	require.NoError(t, err)
	assert.Equal(t, "ledger.xlsx", out.Filename)

	wb, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Ledger")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"2026-03-02", "Acme", "N/A", "1", "1000", "90", "90", "0", "180", "1180"}, rows[1])

	_, err = f.agg.Export(ctx, f.user.ID, "csv", Filters{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotImplemented))
	assert.Equal(t, 501, common.HTTPStatus(err))
	assert.Equal(t, "CSV export not implemented", common.PublicMessage(err))

	_, err = f.agg.Export(ctx, f.user.ID, "pdf", Filters{})
	assert.True(t, errors.Is(err, common.ErrValidation))
}
