package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/billbook/internal/common"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	sheetName   = "Ledger"
	headerFill  = "0F766E"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxFileOut = "ledger.xlsx"
)

var headers = []string{
	"Date",
	"Customer",
	"Invoice No",
	"Products",
	"Subtotal",
	"CGST",
	"SGST",
	"IGST",
	"Total GST",
	"Total Amount",
}

// Export is a rendered ledger file.
type Export struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Export renders the ledger in the requested format. Only xlsx is available.
func (a *Aggregator) Export(ctx context.Context, userID uuid.UUID, format string, f Filters) (*Export, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatXLSX:
		data, err := a.ExportXLSX(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		return &Export{Data: data, Filename: xlsxFileOut, ContentType: xlsxMIME}, nil
	case FormatCSV:
		return nil, common.NewAppError("NOT_IMPLEMENTED", "CSV export not implemented", common.ErrNotImplemented)
	default:
		return nil, common.ValidationFailedf("unknown export format %q", format)
	}
}

// ExportXLSX returns the ledger rows as an XLSX workbook with a styled header row.
func (a *Aggregator) ExportXLSX(ctx context.Context, userID uuid.UUID, f Filters) ([]byte, error) {
	start := time.Now()

	rows, err := a.Ledger(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if err := wb.SetSheetName(wb.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	style, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = wb.SetCellValue(sheetName, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := wb.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, r := range rows {
		values := []any{
			r.Date.Format("2006-01-02"),
			r.Customer,
			r.InvoiceNumber,
			r.Products,
			r.Subtotal,
			r.CGST,
			r.SGST,
			r.IGST,
			r.TotalGST,
			r.TotalAmount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := wb.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}

	_ = wb.SetColWidth(sheetName, "A", "A", 12) // date
	_ = wb.SetColWidth(sheetName, "B", "B", 28) // customer
	_ = wb.SetColWidth(sheetName, "C", "C", 18) // invoice no
	_ = wb.SetColWidth(sheetName, "D", "J", 13) // counts and amounts

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	a.logger.Info().
		Str("user_id", userID.String()).
		Int("rows", len(rows)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("ledger.export.ok")
	return buf.Bytes(), nil
}
