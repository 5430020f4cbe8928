// Package invoices issues outbound GST invoices.
package invoices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/tax"
)

const numberPrefix = "INV"

// IssueRequest is what the caller supplies. Snapshot fields left empty are
// filled from the referenced customer.
type IssueRequest struct {
	CustomerID      *uuid.UUID           `json:"customer_id"`
	CustomerName    string               `json:"customer_name"`
	CustomerGSTIN   *string              `json:"customer_gstin"`
	CustomerAddress *string              `json:"customer_address"`
	Items           []entity.InvoiceItem `json:"items"`
	Notes           *string              `json:"notes"`
}

type Issuer struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	now       func() time.Time
	logger    zerolog.Logger
}

func NewIssuer(invoices repository.InvoiceRepository, customers repository.CustomerRepository, logger zerolog.Logger) *Issuer {
	return &Issuer{
		invoices:  invoices,
		customers: customers,
		now:       time.Now,
		logger:    logger.With().Str("component", "invoices").Logger(),
	}
}

// Number formats the invoice number for a user's seq-th invoice.
func Number(userID uuid.UUID, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", numberPrefix, strings.ToUpper(userID.String()[:8]), seq)
}

// Issue computes totals from the caller's line amounts and stores the invoice
// under the user's next sequence number.
func (s *Issuer) Issue(ctx context.Context, userID uuid.UUID, req IssueRequest) (*entity.Invoice, error) {
	if req.CustomerID != nil {
		c, err := s.customers.Get(ctx, userID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(req.CustomerName) == "" {
			req.CustomerName = c.Name
		}
		if req.CustomerGSTIN == nil {
			req.CustomerGSTIN = c.GSTIN
		}
		if req.CustomerAddress == nil {
			req.CustomerAddress = c.Address
		}
	}

	v := common.NewValidator().
		Field("customer_name", req.CustomerName, common.Required, common.MaxLength(200)).
		Field("customer_gstin", req.CustomerGSTIN, common.GSTIN).
		Check(len(req.Items) > 0, "items", "must contain at least one line")
	for i, it := range req.Items {
		f := fmt.Sprintf("items[%d]", i)
		v.Field(f+".product_name", it.ProductName, common.Required).
			Field(f+".quantity", it.Quantity, common.NonNegative).
			Field(f+".rate", it.Rate, common.NonNegative).
			Field(f+".amount", it.Amount, common.NonNegative)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	subtotal := lo.Reduce(req.Items, func(acc decimal.Decimal, it entity.InvoiceItem, _ int) decimal.Decimal {
		return acc.Add(decimal.NewFromFloat(it.Amount))
	}, decimal.Zero).Round(2)
	split := tax.Compute(subtotal, tax.Registered(req.CustomerGSTIN))
	totalGST := split.Total()

	inv := &entity.Invoice{
		UserID:          userID,
		InvoiceDate:     s.now().UTC(),
		CustomerID:      req.CustomerID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerGSTIN:   req.CustomerGSTIN,
		CustomerAddress: req.CustomerAddress,
		Items:           req.Items,
		Subtotal:        subtotal.InexactFloat64(),
		CGST:            split.CGST.InexactFloat64(),
		SGST:            split.SGST.InexactFloat64(),
		IGST:            split.IGST.InexactFloat64(),
		TotalGST:        totalGST.InexactFloat64(),
		TotalAmount:     subtotal.Add(totalGST).InexactFloat64(),
		Notes:           req.Notes,
	}
	if err := s.invoices.CreateNumbered(ctx, inv, func(seq int) string { return Number(userID, seq) }); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("invoice_number", inv.InvoiceNumber).
		Float64("total_amount", inv.TotalAmount).
		Msg("invoices.issue.ok")
	return inv, nil
}

func (s *Issuer) List(ctx context.Context, userID uuid.UUID, page repository.Page) ([]*entity.Invoice, error) {
	return s.invoices.List(ctx, userID, page)
}

func (s *Issuer) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	return s.invoices.Get(ctx, userID, id)
}
