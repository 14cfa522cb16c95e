package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"billmaker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func registerBills() []*models.Bill {
	first := sampleRenderBill()
	second := sampleRenderBill()
	second.BillNo = "INV/2024/002"
	second.BuyerName = nil
	second.Quantity = 1
	second.TotalAmount = 100
	second.Rate = 84.75
	second.TaxlessAmount = 84.75
	second.CGSTAmount = 7.62
	second.SGSTAmount = 7.62
	second.TotalTax = 15.25
	return []*models.Bill{first, second}
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportCSV, f)

	f, err = ParseExportFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, ExportXLSX, f)
	assert.Contains(t, f.ContentType(), "spreadsheetml")

	_, err = ParseExportFormat("pdf")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRegisterExport_CSV(t *testing.T) {
	bills := new(MockBillService)
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	bills.On("ListByDateRange", context.Background(), "user_2abc", from, to).Return(registerBills(), nil).Once()

	var buf bytes.Buffer
	err := NewRegisterExporter(bills).Export(context.Background(), "user_2abc", from, to, ExportCSV, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, registerHeadings, records[0])
	assert.Equal(t, "INV/2024/001", records[1][0])
	assert.Equal(t, "2024-04-01", records[1][1])
	assert.Equal(t, "", records[2][2])
	assert.Equal(t, []string{"Total", "", "", "", "", "101", "", "10084.75", "", "907.62", "907.62", "1815.25", "11900.00"}, records[3])
	bills.AssertExpectations(t)
}

func TestRegisterExport_XLSX(t *testing.T) {
	bills := new(MockBillService)
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	bills.On("ListByDateRange", context.Background(), "user_2abc", from, to).Return(registerBills(), nil).Once()

	var buf bytes.Buffer
	require.NoError(t, NewRegisterExporter(bills).Export(context.Background(), "user_2abc", from, to, ExportXLSX, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(registerSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Bill No", header)

	billNo, err := f.GetCellValue(registerSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "INV/2024/002", billNo)

	total, err := f.GetCellValue(registerSheet, "M4")
	require.NoError(t, err)
	assert.Equal(t, "11900", total)
}
