package models

import (
	"time"

	"billmaker/internal/gst"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is one GST tax invoice owned by a single user.
type Bill struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	BillNo          string    `json:"bill_no" db:"bill_no"`
	BillingDate     time.Time `json:"billing_date" db:"billing_date"`
	VehicleNumber   *string   `json:"vehicle_number" db:"vehicle_number"`
	Quantity        int       `json:"quantity" db:"quantity"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
	BuyerName       *string   `json:"buyer_name" db:"buyer_name"`
	BuyerAddress    string    `json:"buyer_address" db:"buyer_address"`
	BuyerGST        *string   `json:"buyer_gst" db:"buyer_gst"`
	ShippingName    *string   `json:"shipping_name" db:"shipping_name"`
	ShippingAddress *string   `json:"shipping_address" db:"shipping_address"`
	ShippingGST     *string   `json:"shipping_gst" db:"shipping_gst"`
	IsSameAddress   bool      `json:"is_same_address" db:"is_same_address"`

	// Derived by the tax engine; never set from request input.
	TaxRate       float64 `json:"tax_rate" db:"tax_rate"`
	SplitPolicy   string  `json:"split_policy" db:"split_policy"`
	Rate          float64 `json:"rate" db:"rate"`
	TaxlessAmount float64 `json:"taxless_amount" db:"taxless_amount"`
	CGSTAmount    float64 `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount    float64 `json:"sgst_amount" db:"sgst_amount"`
	TotalTax      float64 `json:"total_tax" db:"total_tax"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ApplyTaxFields overwrites the total and all derived amounts in one step,
// recording the rate and split policy they were derived with.
func (b *Bill) ApplyTaxFields(taxRate float64, policy gst.SplitPolicy, fields gst.TaxFields) {
	b.TaxRate = taxRate
	b.SplitPolicy = string(policy)
	b.TotalAmount = amount(fields.TotalAmount)
	b.Rate = amount(fields.Rate)
	b.TaxlessAmount = amount(fields.TaxableAmount)
	b.CGSTAmount = amount(fields.CGSTAmount)
	b.SGSTAmount = amount(fields.SGSTAmount)
	b.TotalTax = amount(fields.TotalTax)
}

// CopyBuyerToShipping mirrors the buyer block into the shipping block.
func (b *Bill) CopyBuyerToShipping() {
	address := b.BuyerAddress
	b.ShippingName = b.BuyerName
	b.ShippingAddress = &address
	b.ShippingGST = b.BuyerGST
}

// BillFilter narrows a bill listing. Zero values mean "no constraint".
type BillFilter struct {
	Search string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
