// Package ledger derives reporting views from persisted bills: ledger rows,
// dashboard statistics and spreadsheet exports. Nothing here is stored.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

const (
	unknownLabel = "N/A"
	recentBills  = 5
)

// Row is one bill projected for reporting. Unknown numbers project as 0.
type Row struct {
	BillID        uuid.UUID `json:"bill_id"`
	Date          time.Time `json:"date"`
	Customer      string    `json:"customer"`
	InvoiceNumber string    `json:"invoice_number"`
	Products      int       `json:"products"`
	Subtotal      float64   `json:"subtotal"`
	CGST          float64   `json:"cgst"`
	SGST          float64   `json:"sgst"`
	IGST          float64   `json:"igst"`
	TotalGST      float64   `json:"total_gst"`
	TotalAmount   float64   `json:"total_amount"`
}

// Filters narrows the ledger. From and To are inclusive UTC days.
type Filters struct {
	From     *time.Time
	To       *time.Time
	Customer string
}

type DashboardStats struct {
	TotalBills     int64          `json:"total_bills"`
	TotalCustomers int64          `json:"total_customers"`
	TotalSales     float64        `json:"total_sales"`
	TotalGST       float64        `json:"total_gst"`
	MonthlySales   float64        `json:"monthly_sales"`
	MonthlyGST     float64        `json:"monthly_gst"`
	RecentBills    []*entity.Bill `json:"recent_bills"`
}

type Aggregator struct {
	bills     repository.BillRepository
	customers repository.CustomerRepository
	now       func() time.Time
	logger    zerolog.Logger
}

// NewAggregator builds an Aggregator. now may be nil.
func NewAggregator(bills repository.BillRepository, customers repository.CustomerRepository, now func() time.Time, logger zerolog.Logger) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		bills:     bills,
		customers: customers,
		now:       now,
		logger:    logger.With().Str("component", "ledger").Logger(),
	}
}

// Ledger returns one row per bill that carries extracted data, newest first.
func (a *Aggregator) Ledger(ctx context.Context, userID uuid.UUID, f Filters) ([]Row, error) {
	bills, err := a.bills.ListExtracted(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows := lo.FilterMap(bills, func(b *entity.Bill, _ int) (Row, bool) {
		r := project(b)
		return r, f.match(r)
	})
	a.logger.Debug().Str("user_id", userID.String()).Int("bills", len(bills)).Int("rows", len(rows)).Msg("ledger.query.ok")
	return rows, nil
}

func project(b *entity.Bill) Row {
	d := b.ExtractedData
	return Row{
		BillID:        b.ID,
		Date:          b.UploadDate.UTC(),
		Customer:      entity.String(d.BuyerName, unknownLabel),
		InvoiceNumber: entity.String(d.InvoiceNumber, unknownLabel),
		Products:      len(d.Products),
		Subtotal:      entity.Float(d.Subtotal),
		CGST:          entity.Float(d.CGST),
		SGST:          entity.Float(d.SGST),
		IGST:          entity.Float(d.IGST),
		TotalGST:      entity.Float(d.TotalGST),
		TotalAmount:   entity.Float(d.TotalAmount),
	}
}

func (f Filters) match(r Row) bool {
	day := truncateDay(r.Date)
	if f.From != nil && day.Before(truncateDay(*f.From)) {
		return false
	}
	if f.To != nil && day.After(truncateDay(*f.To)) {
		return false
	}
	if f.Customer != "" && r.Customer != f.Customer {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DashboardStats sums sales and GST over all bills and over the current
// calendar month, rounded to 2 decimals.
func (a *Aggregator) DashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	totalBills, err := a.bills.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalCustomers, err := a.customers.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	bills, err := a.bills.ListExtracted(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := a.bills.List(ctx, userID, repository.Page{Limit: recentBills})
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	thisMonth := func(b *entity.Bill) bool {
		u := b.UploadDate.UTC()
		return u.Year() == now.Year() && u.Month() == now.Month()
	}
	monthly := lo.Filter(bills, func(b *entity.Bill, _ int) bool { return thisMonth(b) })

	stats := &DashboardStats{
		TotalBills:     totalBills,
		TotalCustomers: totalCustomers,
		TotalSales:     sum(bills, func(d *entity.ExtractedData) *float64 { return d.TotalAmount }),
		TotalGST:       sum(bills, func(d *entity.ExtractedData) *float64 { return d.TotalGST }),
		MonthlySales:   sum(monthly, func(d *entity.ExtractedData) *float64 { return d.TotalAmount }),
		MonthlyGST:     sum(monthly, func(d *entity.ExtractedData) *float64 { return d.TotalGST }),
		RecentBills:    recent,
	}
	a.logger.Debug().
		Str("user_id", userID.String()).
		Int64("bills", totalBills).
		Float64("total_sales", stats.TotalSales).
		Msg("ledger.dashboard.ok")
	return stats, nil
}

func sum(bills []*entity.Bill, field func(*entity.ExtractedData) *float64) float64 {
	total := lo.Reduce(bills, func(acc decimal.Decimal, b *entity.Bill, _ int) decimal.Decimal {
		if b.ExtractedData == nil {
			return acc
		}
		return acc.Add(decimal.NewFromFloat(entity.Float(field(b.ExtractedData))))
	}, decimal.Zero)
	return total.Round(2).InexactFloat64()
}
