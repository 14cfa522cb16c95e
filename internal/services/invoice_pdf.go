package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"billmaker/internal/common"
	"billmaker/internal/config"
	"billmaker/internal/gst"
	"billmaker/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	pageMargin   = 10.0
	contentWidth = 190.0
)

// InvoiceRenderer lays out a bill as a printable A4 TAX INVOICE.
type InvoiceRenderer struct {
	seller config.SellerConfig
}

func NewInvoiceRenderer(seller config.SellerConfig) *InvoiceRenderer {
	return &InvoiceRenderer{seller: seller}
}

func (r *InvoiceRenderer) Render(bill *models.Bill) ([]byte, error) {
	totalInWords, err := gst.AmountInWords(bill.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("total in words: %w", err)
	}
	taxInWords, err := gst.AmountInWords(bill.TotalTax)
	if err != nil {
		return nil, fmt.Errorf("tax in words: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(fmt.Sprintf("Tax Invoice %s", bill.BillNo), false)
	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(contentWidth, 8, "TAX INVOICE", "B", 1, "C", false, 0, "")
	pdf.Ln(3)

	r.sellerBlock(pdf)
	r.partiesBlock(pdf, bill)
	r.goodsTable(pdf, bill)
	wordsLine(pdf, "Amount Chargeable in words: ", totalInWords)
	r.taxSummaryTable(pdf, bill)
	wordsLine(pdf, "Tax amount in words: ", taxInWords)
	r.footer(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *InvoiceRenderer) sellerBlock(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 6, r.seller.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	var lines []string
	if r.seller.Address != "" {
		lines = append(lines, strings.Split(r.seller.Address, "\n")...)
	}
	if r.seller.GSTIN != "" {
		lines = append(lines, "GSTIN/UIN: "+r.seller.GSTIN)
	}
	if r.seller.Phone != "" {
		lines = append(lines, "Mobile: "+r.seller.Phone)
	}
	if r.seller.Email != "" {
		lines = append(lines, "Email: "+r.seller.Email)
	}
	for _, line := range lines {
		pdf.CellFormat(contentWidth, 4.5, strings.TrimSpace(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (r *InvoiceRenderer) partiesBlock(pdf *gofpdf.Fpdf, bill *models.Bill) {
	const (
		partyWidth = 70.0
		metaWidth  = contentWidth - 2*partyWidth
	)

	shippingTitle := "Shipping Address"
	if bill.IsSameAddress {
		shippingTitle = "Shipping Address (Same)"
	}

	shippingAddress := common.SafeString(bill.ShippingAddress)
	shippingName, shippingGST := bill.ShippingName, bill.ShippingGST
	if shippingAddress == "" {
		shippingAddress, shippingName, shippingGST = bill.BuyerAddress, bill.BuyerName, bill.BuyerGST
	}

	columns := []struct {
		width float64
		title string
		body  string
	}{
		{partyWidth, "Buyer Address", partyText(bill.BuyerName, bill.BuyerAddress, bill.BuyerGST)},
		{partyWidth, shippingTitle, partyText(shippingName, shippingAddress, shippingGST)},
		{metaWidth, "Invoice", fmt.Sprintf("Invoice No: %s\nDate: %s\nVehicle No: %s",
			bill.BillNo, bill.BillingDate.Format("02-01-2006"), orNA(bill.VehicleNumber))},
	}

	top := pdf.GetY()
	bottom := top
	x := pageMargin
	for _, col := range columns {
		pdf.SetXY(x, top)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(col.width, 5, col.title, "LTR", 2, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(col.width, 4.5, col.body, "LRB", "L", false)
		if y := pdf.GetY(); y > bottom {
			bottom = y
		}
		x += col.width
	}
	pdf.SetXY(pageMargin, bottom+3)
}

func (r *InvoiceRenderer) goodsTable(pdf *gofpdf.Fpdf, bill *models.Bill) {
	widths := []float64{50, 22, 20, 22, 28, 16, 32}
	headers := []string{"Description of Goods", "HSN/SAC", "GST Rate", "Quantity", "Rate", "per", "Amount"}
	half := gst.HalfRatePercent(bill.TaxRate)

	tableHeader(pdf, widths, headers)

	pdf.SetFont("Arial", "", 9)
	rows := [][]string{
		{r.seller.GoodsDescription, r.seller.HSNCode, formatPercent(bill.TaxRate), strconv.Itoa(bill.Quantity),
			formatRupees(bill.Rate), r.seller.Unit, formatRupees(bill.TaxlessAmount)},
		{"CGST@" + half + "%", "", "", "", "", "", formatRupees(bill.CGSTAmount)},
		{"SGST@" + half + "%", "", "", "", "", "", formatRupees(bill.SGSTAmount)},
	}
	for _, row := range rows {
		tableRow(pdf, widths, row, "LR")
	}

	pdf.SetFont("Arial", "B", 9)
	tableRow(pdf, widths, []string{"Total", "", "", strconv.Itoa(bill.Quantity), "", "", formatRupees(bill.TotalAmount)}, "1")
	pdf.Ln(2)
}

func (r *InvoiceRenderer) taxSummaryTable(pdf *gofpdf.Fpdf, bill *models.Bill) {
	widths := []float64{25, 35, 20, 30, 20, 30, 30}
	headers := []string{"HSN/SAC", "Taxable Value", "CGST Rate", "CGST Amount", "SGST Rate", "SGST Amount", "Total Tax"}
	half := gst.HalfRatePercent(bill.TaxRate) + "%"

	tableHeader(pdf, widths, headers)

	row := []string{r.seller.HSNCode, formatRupees(bill.TaxlessAmount), half, formatRupees(bill.CGSTAmount),
		half, formatRupees(bill.SGSTAmount), formatRupees(bill.TotalTax)}
	pdf.SetFont("Arial", "", 9)
	tableRow(pdf, widths, row, "1")

	row[0] = "Total"
	pdf.SetFont("Arial", "B", 9)
	tableRow(pdf, widths, row, "1")
	pdf.Ln(2)
}

func (r *InvoiceRenderer) footer(pdf *gofpdf.Fpdf) {
	const colWidth = contentWidth / 2

	declaration := "1. 18% interest will be charged on all invoices not paid within the said time from the date of invoice.\n" +
		"2. Goods once sold will not be taken back or exchanged."

	var bank []string
	bank = append(bank, r.seller.Name)
	if r.seller.BankName != "" {
		bank = append(bank, "Bank Name: "+r.seller.BankName)
	}
	if r.seller.BankBranch != "" {
		bank = append(bank, "Branch: "+r.seller.BankBranch)
	}
	if r.seller.BankAccount != "" {
		bank = append(bank, "A/c No.: "+r.seller.BankAccount)
	}
	if r.seller.BankIFSC != "" {
		bank = append(bank, "IFS Code: "+r.seller.BankIFSC)
	}

	top := pdf.GetY()
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(colWidth, 5, "Declaration:", "LTR", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.MultiCell(colWidth, 4, declaration, "LRB", "L", false)
	leftBottom := pdf.GetY()

	pdf.SetXY(pageMargin+colWidth, top)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(colWidth, 5, "Company's Bank Details:", "LTR", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.MultiCell(colWidth, 4, strings.Join(bank, "\n"), "LRB", "L", false)
	if leftBottom > pdf.GetY() {
		pdf.SetY(leftBottom)
	}

	pdf.SetX(pageMargin)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(colWidth, 6, "Customer's Seal and Signature", "LTR", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, 6, "For "+r.seller.Name, "LTR", 1, "C", false, 0, "")
	pdf.CellFormat(colWidth, 14, "", "LR", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, 14, "", "LR", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(colWidth, 5, "", "LRB", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, 5, "Authorised Signatory", "LRB", 1, "C", false, 0, "")

	pdf.Ln(2)
	if r.seller.Jurisdiction != "" {
		pdf.CellFormat(contentWidth, 4.5, "SUBJECT TO "+strings.ToUpper(r.seller.Jurisdiction)+" JURISDICTION", "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(contentWidth, 4.5, "This is a Computer Generated Invoice", "", 1, "C", false, 0, "")
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, headers []string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func tableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, border string) {
	for i, cell := range cells {
		align := "C"
		if i == 0 {
			align = "L"
		}
		if i == len(cells)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, cell, border, 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func wordsLine(pdf *gofpdf.Fpdf, label, words string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.MultiCell(contentWidth, 5, label+words, "1", "L", false)
	pdf.Ln(2)
}

func partyText(name *string, address string, gstin *string) string {
	var lines []string
	if n := common.SafeString(name); n != "" {
		lines = append(lines, n)
	}
	lines = append(lines, address)
	if g := common.SafeString(gstin); g != "" {
		lines = append(lines, "GSTIN: "+g)
	}
	return strings.Join(lines, "\n")
}

func orNA(s *string) string {
	if v := common.SafeString(s); v != "" {
		return v
	}
	return "N/A"
}

func formatPercent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// formatRupees prints an amount with Indian digit grouping, e.g. "Rs. 1,18,000.00".
func formatRupees(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, paise, _ := strings.Cut(fixed, ".")
	return "Rs. " + sign + groupIndian(whole) + "." + paise
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
