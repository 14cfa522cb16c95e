package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"billmaker/internal/common"
	"billmaker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

const registerSheet = "Sales Register"

var registerHeadings = []string{
	"Bill No", "Billing Date", "Buyer Name", "Buyer GSTIN", "Vehicle No", "Quantity",
	"Rate", "Taxable Value", "Tax Rate %", "CGST", "SGST", "Total Tax", "Total Amount",
}

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case "":
		return ExportCSV, nil
	case ExportCSV, ExportXLSX:
		return f, nil
	default:
		return "", invalid("format", fmt.Errorf("format must be one of: csv, xlsx"))
	}
}

func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// RegisterExporter writes the GST sales register for a billing-date range.
type RegisterExporter interface {
	Export(ctx context.Context, userID string, from, to time.Time, format ExportFormat, w io.Writer) error
}

type registerExporter struct {
	bills BillService
}

func NewRegisterExporter(bills BillService) RegisterExporter {
	return &registerExporter{bills: bills}
}

func (e *registerExporter) Export(ctx context.Context, userID string, from, to time.Time, format ExportFormat, w io.Writer) error {
	bills, err := e.bills.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return err
	}

	switch format {
	case ExportXLSX:
		return writeRegisterXLSX(bills, w)
	default:
		return writeRegisterCSV(bills, w)
	}
}

func registerRow(b *models.Bill) []any {
	return []any{
		b.BillNo,
		b.BillingDate.Format(common.DateLayout),
		common.SafeString(b.BuyerName),
		common.SafeString(b.BuyerGST),
		common.SafeString(b.VehicleNumber),
		b.Quantity,
		b.Rate,
		b.TaxlessAmount,
		b.TaxRate,
		b.CGSTAmount,
		b.SGSTAmount,
		b.TotalTax,
		b.TotalAmount,
	}
}

// registerTotals sums the money columns in decimal so the footer matches the rows.
func registerTotals(bills []*models.Bill) []any {
	var quantity int
	var taxable, cgst, sgst, tax, total decimal.Decimal
	for _, b := range bills {
		quantity += b.Quantity
		taxable = taxable.Add(decimal.NewFromFloat(b.TaxlessAmount))
		cgst = cgst.Add(decimal.NewFromFloat(b.CGSTAmount))
		sgst = sgst.Add(decimal.NewFromFloat(b.SGSTAmount))
		tax = tax.Add(decimal.NewFromFloat(b.TotalTax))
		total = total.Add(decimal.NewFromFloat(b.TotalAmount))
	}
	f := func(d decimal.Decimal) float64 {
		v, _ := d.Round(2).Float64()
		return v
	}
	return []any{"Total", "", "", "", "", quantity, "", f(taxable), "", f(cgst), f(sgst), f(tax), f(total)}
}

func writeRegisterCSV(bills []*models.Bill, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(registerHeadings); err != nil {
		return err
	}
	for _, b := range bills {
		if err := cw.Write(csvRecord(registerRow(b))); err != nil {
			return err
		}
	}
	if err := cw.Write(csvRecord(registerTotals(bills))); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(values []any) []string {
	record := make([]string, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case float64:
			record[i] = strconv.FormatFloat(t, 'f', 2, 64)
		case int:
			record[i] = strconv.Itoa(t)
		default:
			record[i] = fmt.Sprint(t)
		}
	}
	return record
}

func writeRegisterXLSX(bills []*models.Bill, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headings := make([]any, len(registerHeadings))
	for i, h := range registerHeadings {
		headings[i] = h
	}
	if err := f.SetSheetRow(registerSheet, "A1", &headings); err != nil {
		return err
	}

	rowNo := 2
	for _, b := range bills {
		row := registerRow(b)
		if err := f.SetSheetRow(registerSheet, "A"+strconv.Itoa(rowNo), &row); err != nil {
			return err
		}
		rowNo++
	}

	totals := registerTotals(bills)
	if err := f.SetSheetRow(registerSheet, "A"+strconv.Itoa(rowNo), &totals); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(registerHeadings))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(registerSheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(registerSheet, "A"+strconv.Itoa(rowNo), lastCol+strconv.Itoa(rowNo), bold); err != nil {
		return err
	}

	return f.Write(w)
}
